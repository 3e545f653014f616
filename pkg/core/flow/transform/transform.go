// Package transform decomposes a construct's JSON into the named sub-nodes
// it is laid out from.
//
// Each transformer is a pure function of (json, path). It returns nil when
// json is not the construct it handles, so callers can treat nil as "not
// this construct". Every produced [dialog.IndexedNode] carries an id derived
// from path plus a fixed per-slot suffix, and inherits disabled: true from
// its parent through a shallow patch.
package transform

import (
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
)

// Slot suffixes appended to the parent path.
const (
	SlotCondition     = "condition"
	SlotChoice        = "choice"
	SlotActions       = dialog.FieldActions
	SlotElseActions   = dialog.FieldElseActions
	SlotDefault       = dialog.FieldDefault
	SlotDetail        = "detail"
	SlotLoopBegin     = "loopBegin"
	SlotLoopEnd       = "loopEnd"
	SlotBotAsks       = "botAsks"
	SlotUserAnswers   = "userAnswers"
	SlotInvalidPrompt = "invalidPrompt"
)

// DefaultLabel labels the default branch of a switch.
const DefaultLabel = "Default"

// FieldSourceKind records the $kind of the construct a synthetic node was
// derived from.
const FieldSourceKind = "_sourceKind"

// IfElse holds the slots of an if/else construct.
type IfElse struct {
	Condition dialog.IndexedNode
	Choice    dialog.IndexedNode
	If        dialog.IndexedNode
	Else      dialog.IndexedNode
}

// Branch is one labelled branch of a switch.
type Branch struct {
	Label string
	Node  dialog.IndexedNode
}

// Switch holds the slots of a switch construct. Branches[0] is the default
// branch, followed by one branch per case in document order.
type Switch struct {
	Condition dialog.IndexedNode
	Choice    dialog.IndexedNode
	Branches  []Branch
}

// Foreach holds the slots of a foreach or foreach-page construct.
type Foreach struct {
	Header    dialog.IndexedNode
	LoopBegin dialog.IndexedNode
	Body      dialog.IndexedNode
	LoopEnd   dialog.IndexedNode
}

// Input holds the slots of a prompt-style input action.
type Input struct {
	BotAsks       dialog.IndexedNode
	UserAnswers   dialog.IndexedNode
	InvalidPrompt dialog.IndexedNode
}

// IfCondition decomposes a Microsoft.IfCondition.
func IfCondition(json dialog.Node, path string) *IfElse {
	if json.Kind() != dialog.KindIfCondition {
		return nil
	}
	p := patcher(json)
	return &IfElse{
		Condition: p(dialog.Join(path, SlotCondition), conditionNode(json)),
		Choice:    p(dialog.Join(path, SlotChoice), choiceNode(json)),
		If:        p(dialog.Join(path, SlotActions), StepGroupNode(json.Nodes(dialog.FieldActions))),
		Else:      p(dialog.Join(path, SlotElseActions), StepGroupNode(json.Nodes(dialog.FieldElseActions))),
	}
}

// SwitchCondition decomposes a Microsoft.SwitchCondition.
func SwitchCondition(json dialog.Node, path string) *Switch {
	if json.Kind() != dialog.KindSwitchCondition {
		return nil
	}
	p := patcher(json)
	cases := json.Nodes(dialog.FieldCases)
	out := &Switch{
		Condition: p(dialog.Join(path, SlotCondition), conditionNode(json)),
		Choice:    p(dialog.Join(path, SlotChoice), choiceNode(json)),
		Branches:  make([]Branch, 0, len(cases)+1),
	}
	out.Branches = append(out.Branches, Branch{
		Label: DefaultLabel,
		Node:  p(dialog.Join(path, SlotDefault), StepGroupNode(json.Nodes(dialog.FieldDefault))),
	})
	for i, c := range cases {
		id := dialog.Join(dialog.Index(dialog.Join(path, dialog.FieldCases), i), dialog.FieldActions)
		out.Branches = append(out.Branches, Branch{
			Label: c.Text(dialog.FieldValue),
			Node:  p(id, StepGroupNode(c.Nodes(dialog.FieldActions))),
		})
	}
	return out
}

// ForeachLoop decomposes a Microsoft.Foreach or Microsoft.ForeachPage.
func ForeachLoop(json dialog.Node, path string) *Foreach {
	if json.Kind() != dialog.KindForeach {
		return nil
	}
	p := patcher(json)
	return &Foreach{
		Header:    p(dialog.Join(path, SlotDetail), leaf(json, dialog.SyntheticForeachDetail, dialog.FieldItemsProperty, dialog.FieldPageSize, dialog.FieldValue)),
		LoopBegin: p(dialog.Join(path, SlotLoopBegin), leaf(json, dialog.SyntheticLoopIndicator)),
		Body:      p(dialog.Join(path, SlotActions), StepGroupNode(json.Nodes(dialog.FieldActions))),
		LoopEnd:   p(dialog.Join(path, SlotLoopEnd), leaf(json, dialog.SyntheticLoopIndicator)),
	}
}

// BaseInput decomposes a prompt-style input action.
func BaseInput(json dialog.Node, path string) *Input {
	if json.Kind() != dialog.KindBaseInput {
		return nil
	}
	p := patcher(json)
	return &Input{
		BotAsks:       p(dialog.Join(path, SlotBotAsks), leaf(json, dialog.SyntheticBotAsks, dialog.FieldPrompt)),
		UserAnswers:   p(dialog.Join(path, SlotUserAnswers), leaf(json, dialog.SyntheticUserAnswers, dialog.FieldProperty)),
		InvalidPrompt: p(dialog.Join(path, SlotInvalidPrompt), leaf(json, dialog.SyntheticInvalidPrompt, dialog.FieldInvalidPrompt)),
	}
}

// Group returns the children of a sequence-kind node (trigger or root) or a
// step group. Sequence children live under path.actions[i]; step group
// children under path[i], since a step group's path already names its
// array. Any other kind yields nil.
func Group(json dialog.Node, path string) []dialog.IndexedNode {
	var (
		children []dialog.Node
		base     string
	)
	switch json.Kind() {
	case dialog.KindSequence:
		children, base = json.Nodes(dialog.FieldActions), dialog.Join(path, dialog.FieldActions)
	case dialog.KindStepGroup:
		children, base = json.Nodes(dialog.FieldChildren), path
	default:
		return nil
	}
	p := patcher(json)
	out := make([]dialog.IndexedNode, len(children))
	for i, c := range children {
		out[i] = p(dialog.Index(base, i), c)
	}
	return out
}

// StepGroupNode wraps an action list as a synthetic step group.
func StepGroupNode(children []dialog.Node) dialog.Node {
	arr := make([]any, len(children))
	for i, c := range children {
		arr[i] = map[string]any(c)
	}
	return dialog.Node{dialog.FieldKind: dialog.SyntheticStepGroup, dialog.FieldChildren: arr}
}

func conditionNode(json dialog.Node) dialog.Node {
	return leaf(json, dialog.SyntheticCondition, dialog.FieldCondition)
}

func choiceNode(json dialog.Node) dialog.Node {
	return leaf(json, dialog.SyntheticChoiceDiamond, dialog.FieldCondition)
}

// leaf builds a synthetic node carrying only the named fields of json, so
// that its content hash does not change when unrelated parts of the parent
// do.
func leaf(json dialog.Node, kind string, fields ...string) dialog.Node {
	n := dialog.Node{dialog.FieldKind: kind, FieldSourceKind: json.SDKKind()}
	for _, f := range fields {
		if v, ok := json[f]; ok {
			n[f] = v
		}
	}
	return n
}

// patcher returns a constructor for the parent's IndexedNodes that applies
// the disabled inheritance rule.
func patcher(parent dialog.Node) func(id string, n dialog.Node) dialog.IndexedNode {
	if !parent.Disabled() {
		return func(id string, n dialog.Node) dialog.IndexedNode {
			return dialog.IndexedNode{ID: id, JSON: n}
		}
	}
	return func(id string, n dialog.Node) dialog.IndexedNode {
		return dialog.IndexedNode{ID: id, JSON: n.With(map[string]any{dialog.FieldDisabled: true})}
	}
}
