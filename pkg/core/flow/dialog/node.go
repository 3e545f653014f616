package dialog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Node is one construct of a dialog document: a JSON object with a "$kind"
// discriminator and construct-specific fields.
//
// Nodes handed to the engine are treated as read-only. Helpers that derive
// new nodes ([Node.With], [Clone]) always copy.
type Node map[string]any

// Field names read by the engine.
const (
	FieldKind          = "$kind"
	FieldActions       = "actions"
	FieldElseActions   = "elseActions"
	FieldCases         = "cases"
	FieldDefault       = "default"
	FieldCondition     = "condition"
	FieldValue         = "value"
	FieldItemsProperty = "itemsProperty"
	FieldPageSize      = "pageSize"
	FieldDisabled      = "disabled"
	FieldTriggers      = "triggers"
	FieldPrompt        = "prompt"
	FieldProperty      = "property"
	FieldInvalidPrompt = "invalidPrompt"
	FieldActivity      = "activity"
	FieldDialog        = "dialog"
	FieldText          = "text"
	FieldLabel         = "label"
	FieldChildren      = "children"
)

// SDKKind returns the raw $kind string, or "" when absent.
func (n Node) SDKKind() string {
	return n.String(FieldKind)
}

// Kind classifies the node. A nil node is [KindUnknown].
func (n Node) Kind() Kind {
	if n == nil {
		return KindUnknown
	}
	return KindOf(n.SDKKind())
}

// String returns the string field key, or "" when it is missing or not a string.
func (n Node) String(key string) string {
	s, _ := n[key].(string)
	return s
}

// Bool returns the bool field key, or false.
func (n Node) Bool(key string) bool {
	b, _ := n[key].(bool)
	return b
}

// Disabled reports whether the node carries disabled: true.
func (n Node) Disabled() bool {
	return n.Bool(FieldDisabled)
}

// Nodes returns the object elements of the array field key. A missing or
// malformed array is an empty sequence; non-object elements are skipped.
func (n Node) Nodes(key string) []Node {
	raw, ok := n[key].([]any)
	if !ok {
		if typed, ok := n[key].([]Node); ok {
			return typed
		}
		return nil
	}
	out := make([]Node, 0, len(raw))
	for _, v := range raw {
		switch obj := v.(type) {
		case map[string]any:
			out = append(out, Node(obj))
		case Node:
			out = append(out, obj)
		}
	}
	return out
}

// Text returns a printable rendering of field key. Strings are returned as
// they are, numbers and bools are formatted, anything else yields "".
func (n Node) Text(key string) string {
	switch v := n[key].(type) {
	case string:
		return v
	case float64, int, bool:
		return fmt.Sprint(v)
	}
	return ""
}

// With returns a shallow copy of n with the given fields set.
func (n Node) With(fields map[string]any) Node {
	out := make(Node, len(n)+len(fields))
	maps.Copy(out, n)
	maps.Copy(out, fields)
	return out
}

// Clone returns a deep copy of n. Nested objects and arrays are copied so
// the result shares no mutable state with the input.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	return cloneValue(map[string]any(n)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case Node:
		return Node(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Node:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(map[string]any(e))
		}
		return out
	default:
		return v
	}
}

// Canonical returns the canonical JSON encoding of n: object keys sorted,
// no insignificant whitespace. Identical content always encodes identically,
// which makes the encoding usable as a content hash input.
func Canonical(n Node) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(n)); err != nil {
		// Only unsupported values (channels, funcs) fail; documents decoded
		// from JSON never contain them.
		return []byte(fmt.Sprintf("%#v", n))
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
