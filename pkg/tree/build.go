package tree

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrCyclicReference is returned when resolving a document graph would
// require unbounded recursion: either a genuine alias cycle, or nesting
// past the configured depth limit.
var ErrCyclicReference = errors.New("cyclic reference in document")

// DefaultMaxDepth bounds tree construction. Generous for real documents,
// finite so pathological inputs fail instead of exhausting the stack.
const DefaultMaxDepth = 1000

// BuildOptions configures tree construction.
type BuildOptions struct {
	// MaxDepth overrides DefaultMaxDepth when > 0.
	MaxDepth int
}

func (o BuildOptions) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

// FromGo builds a Value tree from a decoded Go value (the shape produced by
// generic unmarshaling: nil, bool, numbers, string, time.Time, slices and
// string-keyed maps). Aliased nodes are copied into independent subtrees;
// a value that contains itself fails with ErrCyclicReference. Map keys are
// emitted in sorted order since Go maps carry no insertion order.
func FromGo(v interface{}, opts BuildOptions) (*Value, error) {
	b := &goBuilder{maxDepth: opts.maxDepth(), inFlight: make(map[uintptr]bool)}
	return b.build(v, 0)
}

type goBuilder struct {
	maxDepth int
	inFlight map[uintptr]bool
}

func (b *goBuilder) build(v interface{}, depth int) (*Value, error) {
	if depth > b.maxDepth {
		return nil, fmt.Errorf("%w: depth limit %d exceeded", ErrCyclicReference, b.maxDepth)
	}

	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return b.build(rv.Elem().Interface(), depth)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if err := b.enter(rv); err != nil {
				return nil, err
			}
			defer b.leave(rv)
		}
		items := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := b.build(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case reflect.Map:
		if err := b.enter(rv); err != nil {
			return nil, err
		}
		defer b.leave(rv)
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := mapKeyString(k)
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, ks := range keys {
			field, err := b.build(byKey[ks].Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(ks, field)
		}
		return &Value{Kind: KindObject, Obj: obj}, nil
	}

	return nil, fmt.Errorf("cannot build tree from %T", v)
}

func (b *goBuilder) enter(rv reflect.Value) error {
	p := rv.Pointer()
	if p == 0 {
		return nil
	}
	if b.inFlight[p] {
		return fmt.Errorf("%w: value contains itself", ErrCyclicReference)
	}
	b.inFlight[p] = true
	return nil
}

func (b *goBuilder) leave(rv reflect.Value) {
	delete(b.inFlight, rv.Pointer())
}

func mapKeyString(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Bool:
		return strconv.FormatBool(k.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64)
	default:
		return fmt.Sprint(k.Interface())
	}
}

// FromYAML builds a Value tree from a yaml.v3 node, resolving anchors and
// aliases into independent copies. An alias that participates in its own
// definition fails with ErrCyclicReference rather than recursing forever.
func FromYAML(node *yaml.Node, opts BuildOptions) (*Value, error) {
	b := &yamlBuilder{maxDepth: opts.maxDepth(), resolving: make(map[*yaml.Node]bool)}
	return b.build(node, 0)
}

type yamlBuilder struct {
	maxDepth  int
	resolving map[*yaml.Node]bool
}

func (b *yamlBuilder) build(node *yaml.Node, depth int) (*Value, error) {
	if depth > b.maxDepth {
		return nil, fmt.Errorf("%w: depth limit %d exceeded", ErrCyclicReference, b.maxDepth)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return b.build(node.Content[0], depth)

	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		if b.resolving[node.Alias] {
			return nil, fmt.Errorf("%w: alias *%s refers to itself", ErrCyclicReference, node.Value)
		}
		b.resolving[node.Alias] = true
		v, err := b.build(node.Alias, depth)
		delete(b.resolving, node.Alias)
		return v, err

	case yaml.ScalarNode:
		return yamlScalar(node)

	case yaml.SequenceNode:
		items := make([]*Value, len(node.Content))
		for i, item := range node.Content {
			v, err := b.build(item, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return Array(items...), nil

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := yamlKeyString(node.Content[i])
			v, err := b.build(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		return &Value{Kind: KindObject, Obj: obj}, nil
	}

	return nil, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
}

// yamlScalar decodes a scalar node. Scalars cannot contain aliases, so
// delegating to yaml.v3's resolver here is safe.
func yamlScalar(node *yaml.Node) (*Value, error) {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding scalar %q: %w", node.Value, err)
	}
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339)), nil
	case []byte:
		return String(string(t)), nil
	default:
		return String(node.Value), nil
	}
}

// yamlKeyString converts a mapping key node to its string form. Non-string
// scalar keys (numbers, booleans, null) use their canonical text.
func yamlKeyString(node *yaml.Node) string {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return yamlKeyString(node.Alias)
	}
	if node.Kind != yaml.ScalarNode {
		return node.Value
	}
	switch node.Tag {
	case "!!null":
		return "null"
	default:
		return node.Value
	}
}
