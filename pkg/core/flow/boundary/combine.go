package boundary

// column returns the shared axis and widest right half of boundaries that
// are stacked on one vertical spine.
func column(bs ...Boundary) (axis, right float64) {
	for _, b := range bs {
		axis = max(axis, b.AxisX)
		right = max(right, b.RightHalf())
	}
	return axis, right
}

func stacked(axis, right, height float64) Boundary {
	return Boundary{Width: axis + right, Height: height, AxisX: axis, AxisY: height / 2}
}

// Sequence stacks children on one spine with ElementGapY between them. A
// leading or trailing edge stub adds half a gap. An empty list is an insert
// point.
func Sequence(s Sizes, children []Boundary, head, tail bool) Boundary {
	if len(children) == 0 {
		return s.InsertPoint()
	}
	axis, right := column(children...)
	height := float64(len(children)-1) * s.ElementGapY
	for _, c := range children {
		height += c.Height
	}
	if head {
		height += s.ElementGapY / 2
	}
	if tail {
		height += s.ElementGapY / 2
	}
	return stacked(axis, right, height)
}

// SwitchGaps returns the horizontal gap between each adjacent pair of
// branches. A gap is never below BranchGapX and never lets two branch axes
// come closer than MinBranchAxisSeparation.
func SwitchGaps(s Sizes, branches []Boundary) []float64 {
	if len(branches) < 2 {
		return nil
	}
	gaps := make([]float64, len(branches)-1)
	for i := range gaps {
		left, right := branches[i], branches[i+1]
		gaps[i] = max(s.BranchGapX, s.MinBranchAxisSeparation-left.RightHalf()-right.AxisX)
	}
	return gaps
}

// Row lays branches side by side with the given gaps. The trunk axis of the
// row is axis.
func Row(branches []Boundary, gaps []float64, axis float64) Boundary {
	var width, height float64
	for i, b := range branches {
		width += b.Width
		if i > 0 {
			width += gaps[i-1]
		}
		height = max(height, b.Height)
	}
	return Boundary{Width: width, Height: height, AxisX: min(axis, width), AxisY: height / 2}
}

// IfElseRow is the branch row of an if/else: the two branches BranchGapX
// apart, trunk at the horizontal center so that swapping the branches does
// not change the row.
func IfElseRow(s Sizes, ifBranch, elseBranch Boundary) Boundary {
	width := ifBranch.Width + s.BranchGapX + elseBranch.Width
	return Row([]Boundary{ifBranch, elseBranch}, []float64{s.BranchGapX}, width/2)
}

// SwitchRow is the branch row of a switch. The trunk flows into the first
// (default) branch.
func SwitchRow(s Sizes, branches []Boundary) Boundary {
	if len(branches) == 0 {
		return s.InsertPoint()
	}
	return Row(branches, SwitchGaps(s, branches), branches[0].AxisX)
}

// Branches stacks a condition node, a choice diamond and a branch row, with
// a final BranchGapY for the edges joining the branches back to the trunk.
func Branches(s Sizes, condition, choice, row Boundary) Boundary {
	axis, right := column(condition, choice, row)
	height := condition.Height + s.ElementGapY + choice.Height + s.BranchGapY + row.Height + s.BranchGapY
	return stacked(axis, right, height)
}

// IfElse measures an if/else construct.
func IfElse(s Sizes, condition, choice, ifBranch, elseBranch Boundary) Boundary {
	return Branches(s, condition, choice, IfElseRow(s, ifBranch, elseBranch))
}

// Switch measures a switch construct with its default branch first.
func Switch(s Sizes, condition, choice Boundary, branches []Boundary) Boundary {
	return Branches(s, condition, choice, SwitchRow(s, branches))
}

// Foreach measures a loop: header, loop-begin marker, body and loop-end
// marker stacked with ElementGapY, plus LoopMarginLeft to the left of the
// spine for the dashed loop-back edge.
func Foreach(s Sizes, header, body, loopBegin, loopEnd Boundary) Boundary {
	axis, right := column(header, loopBegin, body, loopEnd)
	height := header.Height + loopBegin.Height + body.Height + loopEnd.Height + 3*s.ElementGapY
	return stacked(axis+s.LoopMarginLeft, right, height)
}

// BaseInput measures a prompt: the bot-asks node over the user-answers node,
// with the invalid-prompt icon InvalidPromptMarginX beyond the wider right
// half.
func BaseInput(s Sizes, botAsks, userAnswers, invalidPrompt Boundary) Boundary {
	axis, right := column(botAsks, userAnswers)
	right += s.InvalidPromptMarginX + invalidPrompt.Width
	height := botAsks.Height + s.ElementGapY + userAnswers.Height
	return stacked(axis, right, height)
}
