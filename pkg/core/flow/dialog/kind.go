package dialog

import "strings"

// Kind is the closed set of construct kinds the layout engine distinguishes.
// Every $kind string in a document maps to exactly one Kind; strings the
// engine does not know map to [KindUnknown].
type Kind int

const (
	KindUnknown Kind = iota
	KindAtomic
	KindSequence
	KindStepGroup
	KindIfCondition
	KindSwitchCondition
	KindForeach
	KindBaseInput

	// Synthetic kinds produced by transformers.
	KindConditionNode
	KindChoiceDiamond
	KindForeachDetail
	KindLoopIndicator
	KindBotAsks
	KindUserAnswers
	KindInvalidPromptBrick
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindAtomic:             "atomic",
	KindSequence:           "sequence",
	KindStepGroup:          "step-group",
	KindIfCondition:        "if-condition",
	KindSwitchCondition:    "switch-condition",
	KindForeach:            "foreach",
	KindBaseInput:          "base-input",
	KindConditionNode:      "condition-node",
	KindChoiceDiamond:      "choice-diamond",
	KindForeachDetail:      "foreach-detail",
	KindLoopIndicator:      "loop-indicator",
	KindBotAsks:            "bot-asks",
	KindUserAnswers:        "user-answers",
	KindInvalidPromptBrick: "invalid-prompt-brick",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// IsContainer reports whether nodes of this kind are laid out from children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindSequence, KindStepGroup, KindIfCondition, KindSwitchCondition, KindForeach, KindBaseInput:
		return true
	}
	return false
}

// IsSynthetic reports whether the kind only exists as a transformer product.
func (k Kind) IsSynthetic() bool {
	return k >= KindConditionNode || k == KindStepGroup
}

// SDK $kind strings understood by the engine.
const (
	SDKAdaptiveDialog   = "Microsoft.AdaptiveDialog"
	SDKIfCondition      = "Microsoft.IfCondition"
	SDKSwitchCondition  = "Microsoft.SwitchCondition"
	SDKForeach          = "Microsoft.Foreach"
	SDKForeachPage      = "Microsoft.ForeachPage"
	SDKSendActivity     = "Microsoft.SendActivity"
	SDKEndDialog        = "Microsoft.EndDialog"
	SDKRepeatDialog     = "Microsoft.RepeatDialog"
	SDKBeginDialog      = "Microsoft.BeginDialog"
	SDKLogAction        = "Microsoft.LogAction"
	SDKTextInput        = "Microsoft.TextInput"
	SDKOnBeginDialog    = "Microsoft.OnBeginDialog"
	triggerPrefix       = "Microsoft.On"
	syntheticKindPrefix = "adaptiveflow."
)

// Synthetic $kind strings written by transformers.
const (
	SyntheticRoot          = syntheticKindPrefix + "Root"
	SyntheticStepGroup     = syntheticKindPrefix + "StepGroup"
	SyntheticCondition     = syntheticKindPrefix + "ConditionNode"
	SyntheticChoiceDiamond = syntheticKindPrefix + "ChoiceDiamond"
	SyntheticForeachDetail = syntheticKindPrefix + "ForeachDetail"
	SyntheticLoopIndicator = syntheticKindPrefix + "LoopIndicator"
	SyntheticBotAsks       = syntheticKindPrefix + "BotAsks"
	SyntheticUserAnswers   = syntheticKindPrefix + "UserAnswers"
	SyntheticInvalidPrompt = syntheticKindPrefix + "InvalidPromptBrick"
)

var kindTable = map[string]Kind{
	SyntheticRoot: KindSequence,

	SDKIfCondition:     KindIfCondition,
	SDKSwitchCondition: KindSwitchCondition,
	SDKForeach:         KindForeach,
	SDKForeachPage:     KindForeach,

	"Microsoft.TextInput":       KindBaseInput,
	"Microsoft.NumberInput":     KindBaseInput,
	"Microsoft.ConfirmInput":    KindBaseInput,
	"Microsoft.ChoiceInput":     KindBaseInput,
	"Microsoft.AttachmentInput": KindBaseInput,
	"Microsoft.DateTimeInput":   KindBaseInput,
	"Microsoft.OAuthInput":      KindBaseInput,

	SDKSendActivity:                    KindAtomic,
	SDKEndDialog:                       KindAtomic,
	SDKRepeatDialog:                    KindAtomic,
	SDKBeginDialog:                     KindAtomic,
	SDKLogAction:                       KindAtomic,
	"Microsoft.ReplaceDialog":          KindAtomic,
	"Microsoft.CancelAllDialogs":       KindAtomic,
	"Microsoft.CancelDialog":           KindAtomic,
	"Microsoft.EndTurn":                KindAtomic,
	"Microsoft.SetProperty":            KindAtomic,
	"Microsoft.SetProperties":          KindAtomic,
	"Microsoft.DeleteProperty":         KindAtomic,
	"Microsoft.DeleteProperties":       KindAtomic,
	"Microsoft.EditArray":              KindAtomic,
	"Microsoft.EditActions":            KindAtomic,
	"Microsoft.EmitEvent":              KindAtomic,
	"Microsoft.TraceActivity":          KindAtomic,
	"Microsoft.HttpRequest":            KindAtomic,
	"Microsoft.BreakLoop":              KindAtomic,
	"Microsoft.ContinueLoop":           KindAtomic,
	"Microsoft.GotoAction":             KindAtomic,
	"Microsoft.DebugBreak":             KindAtomic,
	"Microsoft.SignOutUser":            KindAtomic,
	"Microsoft.GetActivityMembers":     KindAtomic,
	"Microsoft.GetConversationMembers": KindAtomic,
	"Microsoft.UpdateActivity":         KindAtomic,
	"Microsoft.DeleteActivity":         KindAtomic,

	SyntheticStepGroup:     KindStepGroup,
	SyntheticCondition:     KindConditionNode,
	SyntheticChoiceDiamond: KindChoiceDiamond,
	SyntheticForeachDetail: KindForeachDetail,
	SyntheticLoopIndicator: KindLoopIndicator,
	SyntheticBotAsks:       KindBotAsks,
	SyntheticUserAnswers:   KindUserAnswers,
	SyntheticInvalidPrompt: KindInvalidPromptBrick,
}

// KindOf classifies a $kind string. Trigger kinds (Microsoft.On*) own an
// action list and classify as [KindSequence].
func KindOf(sdkKind string) Kind {
	if k, ok := kindTable[sdkKind]; ok {
		return k
	}
	if strings.HasPrefix(sdkKind, triggerPrefix) {
		return KindSequence
	}
	return KindUnknown
}
