package pizza

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/pizzaform/agent"
	"github.com/tbxark/pizzaform/dialogue"
	"github.com/tbxark/pizzaform/intent"
)

// NewFlow builds the model-backed pizza form. Replies are phrased by the model from the
// pizza lifecycle prompts.
func NewFlow(chatModel model.ToolCallingChatModel, schedule Schedule, sink Sink, lang string) (*agent.FormFlow[*OrderRecord], error) {
	v := NewValidator(schedule)
	flow, err := agent.NewToolBasedFormFlow[*OrderRecord](
		NewFormSpec(v),
		NewManager(v, sink),
		chatModel,
		agent.WithCancelKeywords[*OrderRecord](StopExamples...),
		agent.WithDialogueOptions(
			dialogue.WithPromptBuilder[*OrderRecord](Prompts{}),
			dialogue.WithDialogueLang[*OrderRecord](lang),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create pizza flow: %w", err)
	}
	return flow, nil
}

// NewOfflineFlow builds the pizza form without a model: keywords drive the commands,
// LocalPatchGenerator reads "field: value" answers and replies are canned.
func NewOfflineFlow(schedule Schedule, sink Sink) (*agent.FormFlow[*OrderRecord], error) {
	v := NewValidator(schedule)
	spec := NewFormSpec(v)
	return agent.NewFormFlow[*OrderRecord](
		spec,
		NewManager(v, sink),
		LocalPatchGenerator{},
		&dialogue.LocalDialogueGenerator[*OrderRecord]{MergeAllUnvalidatedFields: true, Summary: spec.Summary},
		intent.NewLocalIntentRecognizer[*OrderRecord](StopExamples...),
	)
}
