package dialog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

// IndexedNode is a path-identified slice of a construct, produced by a
// transformer. ID is the structural path and is the node's identity; two
// IndexedNodes with the same ID but different JSON are two versions of the
// same slot.
type IndexedNode struct {
	ID   string
	JSON Node
}

// Document is a parsed dialog document reduced to the action list that gets
// laid out.
type Document struct {
	// Root is the sequence-kind node whose actions form the flow.
	Root Node
	// Path is the structural path of Root ("" for the document root).
	Path string
	// Triggers lists the $kind of every trigger when the document is an
	// AdaptiveDialog, in document order.
	Triggers []string
}

// ParseOptions controls root selection.
type ParseOptions struct {
	// Trigger selects triggers[Trigger] of an AdaptiveDialog document.
	Trigger int
}

// Parse decodes a dialog document. Accepted roots are a trigger object
// (any sequence-kind object with an actions array), an AdaptiveDialog
// object (one trigger is selected by opts.Trigger), or a bare array of
// actions, which becomes a synthetic root sequence.
func Parse(data []byte, opts ParseOptions) (*Document, error) {
	if len(data) > errors.MaxDocumentBytes {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document too large (%d bytes, max %d)", len(data), errors.MaxDocumentBytes)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document is empty")
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}

	switch v := raw.(type) {
	case []any:
		return &Document{Root: NewRoot(v)}, nil
	case map[string]any:
		return FromNode(Node(v), opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document root must be an object or an array, got %T", raw)
	}
}

// FromNode selects the layout root of an already decoded document. The
// input is cloned and never modified.
func FromNode(n Node, opts ParseOptions) (*Document, error) {
	n = Clone(n)
	if n.SDKKind() == SDKAdaptiveDialog {
		triggers := n.Nodes(FieldTriggers)
		kinds := make([]string, len(triggers))
		for i, t := range triggers {
			kinds[i] = t.SDKKind()
		}
		if len(triggers) == 0 {
			return &Document{Root: NewRoot(nil), Triggers: kinds}, nil
		}
		if opts.Trigger < 0 || opts.Trigger >= len(triggers) {
			return nil, errors.New(errors.ErrCodeNotFound, "trigger %d out of range (document has %d)", opts.Trigger, len(triggers))
		}
		return &Document{
			Root:     triggers[opts.Trigger],
			Path:     Index(FieldTriggers, opts.Trigger),
			Triggers: kinds,
		}, nil
	}

	if n.Kind() == KindSequence {
		return &Document{Root: n}, nil
	}
	v, ok := n[FieldActions]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document root %q is not a trigger, dialog or action list", n.SDKKind())
	}
	actions, _ := v.([]any)
	return &Document{Root: NewRoot(actions)}, nil
}

// NewRoot wraps a bare action array in a synthetic root sequence.
func NewRoot(actions []any) Node {
	if actions == nil {
		actions = []any{}
	}
	return Node{FieldKind: SyntheticRoot, FieldActions: actions}
}

// Join appends a field name to a structural path.
func Join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// Index appends an array index to a structural path.
func Index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// Parent returns the structural path one level up: the enclosing array
// element for an index path, or the owning construct for a field path.
// The parent of a top-level path is "".
func Parent(path string) string {
	if strings.HasSuffix(path, "]") {
		if i := strings.LastIndexByte(path, '['); i >= 0 {
			return path[:i]
		}
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}
