package layout

import "github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"

// BaseInput lays out a prompt: the bot-asks node above the user-answers
// node, and the invalid-prompt icon to the right with a dashed retry loop
// from the answer back to the question.
func BaseInput(s boundary.Sizes, botAsks, userAnswers, invalidPrompt GraphNode) GraphLayout {
	b := newBuilder(boundary.BaseInput(s, botAsks.Boundary, userAnswers.Boundary, invalidPrompt.Boundary))
	axis := b.out.Boundary.AxisX

	botAsks = b.place(NameBotAsks, botAsks, axis-botAsks.Boundary.AxisX, 0)
	userAnswers = b.place(NameUserAnswers, userAnswers, axis-userAnswers.Boundary.AxisX, botAsks.Bottom()+s.ElementGapY)
	b.edge("input/answer", Down, axis, botAsks.Bottom(), s.ElementGapY, EdgeOptions{Directed: true, Dashed: true})

	right := max(botAsks.Boundary.RightHalf(), userAnswers.Boundary.RightHalf())
	iconX := axis + right + s.InvalidPromptMarginX
	answerY := userAnswers.Center().Y
	invalidPrompt = b.place(NameInvalidPrompt, invalidPrompt, iconX, answerY-invalidPrompt.Boundary.Height/2)

	iconAxis := invalidPrompt.Center().X
	askY := botAsks.Center().Y
	b.edge("input/invalid-out", Right, userAnswers.Right(), answerY, iconX-userAnswers.Right(), dashed)
	b.edge("input/invalid-up", Up, iconAxis, invalidPrompt.Offset.Y, invalidPrompt.Offset.Y-askY, dashed)
	b.edge("input/invalid-back", Left, iconAxis, askY, iconAxis-botAsks.Right(), EdgeOptions{Directed: true, Dashed: true})
	return b.out
}
