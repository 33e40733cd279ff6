// Package parser turns JSON, YAML and TOML documents into normalized value
// trees. Format is detected by file extension, with a JSON→YAML→TOML
// fallback chain for unknown extensions, or forced with a FormatHint.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/wonderfulspam/semdiff/pkg/tree"
)

// FormatHint forces a specific input format, or auto-detection.
type FormatHint string

const (
	FormatAuto FormatHint = "auto"
	FormatJSON FormatHint = "json"
	FormatYAML FormatHint = "yaml"
	FormatTOML FormatHint = "toml"
)

// ParseFormatHint validates a format hint string.
func ParseFormatHint(s string) (FormatHint, error) {
	switch FormatHint(s) {
	case FormatAuto, FormatJSON, FormatYAML, FormatTOML:
		return FormatHint(s), nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: auto, json, yaml, toml)", s)
	}
}

// ParseFile reads and parses a file. The format follows the extension
// (.json, .yaml, .yml, .toml); any other extension falls back to trying
// JSON, then YAML, then TOML.
func ParseFile(path string) (*tree.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var v *tree.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		v, err = ParseJSON(data)
	case ".yaml", ".yml":
		v, err = ParseYAML(data)
	case ".toml":
		v, err = ParseTOML(data)
	default:
		v, err = Parse(data, FormatAuto)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// ParseStdin parses standard input under the given format hint.
func ParseStdin(hint FormatHint) (*tree.Value, error) {
	return ParseReader(os.Stdin, hint)
}

// ParseReader parses a stream under the given format hint.
func ParseReader(r io.Reader, hint FormatHint) (*tree.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return Parse(data, hint)
}

// Parse parses raw document bytes. With FormatAuto it tries JSON, then
// YAML, then TOML, returning the first success.
func Parse(data []byte, hint FormatHint) (*tree.Value, error) {
	switch hint {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatTOML:
		return ParseTOML(data)
	default:
		if v, err := ParseJSON(data); err == nil {
			return v, nil
		}
		if v, err := ParseYAML(data); err == nil {
			return v, nil
		}
		if v, err := ParseTOML(data); err == nil {
			return v, nil
		}
		return nil, fmt.Errorf("could not detect document format (tried JSON, YAML, TOML)")
	}
}

// ParseJSON parses a JSON document, preserving object key order.
func ParseJSON(data []byte) (*tree.Value, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("invalid JSON: empty document")
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return fromJSON(gjson.Parse(trimmed)), nil
}

func fromJSON(r gjson.Result) *tree.Value {
	switch {
	case r.Type == gjson.Null:
		return tree.Null()
	case r.Type == gjson.False:
		return tree.Bool(false)
	case r.Type == gjson.True:
		return tree.Bool(true)
	case r.Type == gjson.Number:
		return tree.Number(r.Num)
	case r.Type == gjson.String:
		return tree.String(r.Str)
	case r.IsArray():
		var items []*tree.Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromJSON(item))
			return true
		})
		return tree.Array(items...)
	default:
		var fields []tree.Field
		r.ForEach(func(key, field gjson.Result) bool {
			fields = append(fields, tree.Field{Key: key.String(), Value: fromJSON(field)})
			return true
		})
		return tree.ObjectOf(fields...)
	}
}

// ParseYAML parses a YAML document. Anchors and aliases are resolved into
// independent copies; self-referential aliases fail with
// tree.ErrCyclicReference.
func ParseYAML(data []byte) (*tree.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if node.Kind == 0 {
		// Empty document.
		return tree.Null(), nil
	}
	return tree.FromYAML(&node, tree.BuildOptions{})
}

// ParseTOML parses a TOML document. Keys come out in sorted order: the
// decoded Go maps carry no source order, and sorted keys keep change sets
// deterministic.
func ParseTOML(data []byte) (*tree.Value, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return tree.FromGo(doc, tree.BuildOptions{})
}
