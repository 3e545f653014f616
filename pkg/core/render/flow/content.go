package flow

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/transform"
)

// Shape is the drawn form of a leaf.
type Shape string

const (
	ShapeCard        Shape = "card"
	ShapeDiamond     Shape = "diamond"
	ShapeLoopIcon    Shape = "loop"
	ShapeIconBrick   Shape = "brick"
	ShapeInsertPoint Shape = "insert"
)

func shapeOf(k dialog.Kind) Shape {
	switch k {
	case dialog.KindChoiceDiamond:
		return ShapeDiamond
	case dialog.KindLoopIndicator:
		return ShapeLoopIcon
	case dialog.KindInvalidPromptBrick:
		return ShapeIconBrick
	case dialog.KindStepGroup, dialog.KindSequence:
		return ShapeInsertPoint
	}
	return ShapeCard
}

// title returns the header line of a card.
func title(n dialog.Node) string {
	src := n.String(transform.FieldSourceKind)
	switch n.Kind() {
	case dialog.KindConditionNode:
		if src == dialog.SDKSwitchCondition {
			return "Branch: Switch"
		}
		return "Branch: If/else"
	case dialog.KindForeachDetail:
		if src == dialog.SDKForeachPage {
			return "Loop: For each page"
		}
		return "Loop: For each item"
	case dialog.KindBotAsks:
		return "Bot Asks"
	case dialog.KindUserAnswers:
		return "User Input (" + humanize(src) + ")"
	case dialog.KindUnknown:
		if k := n.SDKKind(); k != "" {
			return humanize(k)
		}
		return "Unknown"
	}
	return humanize(n.SDKKind())
}

// body returns the descriptive text of a card.
func body(n dialog.Node) string {
	if l := n.String(dialog.FieldLabel); l != "" {
		return l
	}
	switch n.Kind() {
	case dialog.KindConditionNode:
		return n.Text(dialog.FieldCondition)
	case dialog.KindForeachDetail:
		s := "Each value in " + n.Text(dialog.FieldItemsProperty)
		if p := n.Text(dialog.FieldPageSize); p != "" {
			s += ", " + p + " per page"
		}
		return s
	case dialog.KindBotAsks:
		return n.Text(dialog.FieldPrompt)
	case dialog.KindUserAnswers:
		return n.Text(dialog.FieldProperty)
	}
	for _, f := range []string{dialog.FieldActivity, dialog.FieldText, dialog.FieldDialog} {
		if s := n.Text(f); s != "" {
			return s
		}
	}
	if p := n.Text(dialog.FieldProperty); p != "" {
		if v := n.Text(dialog.FieldValue); v != "" {
			return fmt.Sprintf("%s = %s", p, v)
		}
		return p
	}
	return ""
}

// humanize turns "Microsoft.SendActivity" into "Send Activity".
func humanize(kind string) string {
	if i := strings.LastIndexByte(kind, '.'); i >= 0 {
		kind = kind[i+1:]
	}
	var b strings.Builder
	for i, r := range kind {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tabOf names the property tab a slot opens.
func tabOf(k dialog.Kind) string {
	switch k {
	case dialog.KindBotAsks:
		return "botAsks"
	case dialog.KindUserAnswers:
		return "userInput"
	case dialog.KindInvalidPromptBrick:
		return "invalidPrompt"
	}
	return ""
}

// ownerOf returns the selection id of the action a leaf belongs to. Synthetic
// slots select their construct.
func ownerOf(id string, k dialog.Kind) string {
	if k.IsSynthetic() {
		return dialog.Parent(id)
	}
	return id
}
