package diff

import "github.com/wonderfulspam/semdiff/pkg/tree"

// Compute compares two value trees and returns the ordered change set. It
// is total: two well-formed trees always diff successfully. The inputs are
// not retained or mutated, so independent comparisons may run concurrently.
func Compute(old, new *tree.Value, cfg *Config) *Result {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := &differ{cfg: cfg}
	d.value(old, new, tree.Path{})
	return &Result{Changes: d.changes, Stats: CountStats(d.changes)}
}

type differ struct {
	cfg     *Config
	changes []Change
}

func (d *differ) record(c Change) {
	d.changes = append(d.changes, c)
}

// value dispatches on the kind pairing. Containers of the same kind are
// always decomposed into child changes, never reported as one opaque
// modification; everything else reduces to a scalar comparison.
func (d *differ) value(old, new *tree.Value, path tree.Path) {
	switch {
	case old.Kind == tree.KindObject && new.Kind == tree.KindObject:
		d.objects(old.Obj, new.Obj, path)
	case old.Kind == tree.KindArray && new.Kind == tree.KindArray:
		d.arrays(old.Items, new.Items, path)
	case tree.Equal(old, new, d.cfg.equalOptions()):
		if !d.cfg.Compact {
			d.record(Change{Path: path, Type: ChangeTypeUnchanged, OldValue: old, NewValue: new})
		}
	default:
		d.record(Change{Path: path, Type: ChangeTypeModified, OldValue: old, NewValue: new})
	}
}

// objects walks the union of keys: old-side insertion order first, then
// keys only present on the new side in new-side order. Emission follows
// that walk, so output order is deterministic regardless of change type.
func (d *differ) objects(old, new *tree.Object, path tree.Path) {
	for _, key := range old.Keys() {
		oldVal, _ := old.Get(key)
		childPath := path.Child(tree.Key(key))
		newVal, inNew := new.Get(key)
		if !inNew {
			if d.missing(oldVal) {
				continue
			}
			d.record(Change{Path: childPath, Type: ChangeTypeRemoved, OldValue: oldVal})
			continue
		}
		d.value(oldVal, newVal, childPath)
	}
	for _, key := range new.Keys() {
		if _, inOld := old.Get(key); inOld {
			continue
		}
		newVal, _ := new.Get(key)
		if d.missing(newVal) {
			continue
		}
		d.record(Change{Path: path.Child(tree.Key(key)), Type: ChangeTypeAdded, NewValue: newVal})
	}
}

// missing reports whether a one-sided value counts as structurally absent.
func (d *differ) missing(v *tree.Value) bool {
	return d.cfg.NullAsMissing && v.Kind == tree.KindNull
}

func (d *differ) arrays(old, new []*tree.Value, path tree.Path) {
	for _, pair := range align(old, new, d.cfg) {
		switch {
		case pair.oldIdx >= 0 && pair.newIdx >= 0:
			d.value(old[pair.oldIdx], new[pair.newIdx], path.Child(tree.Index(pair.newIdx)))
		case pair.oldIdx >= 0:
			d.record(Change{
				Path:     path.Child(tree.Index(pair.oldIdx)),
				Type:     ChangeTypeRemoved,
				OldValue: old[pair.oldIdx],
			})
		default:
			d.record(Change{
				Path:     path.Child(tree.Index(pair.newIdx)),
				Type:     ChangeTypeAdded,
				NewValue: new[pair.newIdx],
			})
		}
	}
}
