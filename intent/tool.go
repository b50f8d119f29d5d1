package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/structured"
	"github.com/tbxark/pizzaform/types"
)

const (
	parseIntentToolName        = "parse_intent"
	parseIntentToolDescription = "Analyze user input and determine command intent: cancel, confirm, edit, do_nothing."
)

// DefaultParseIntentSystemPromptTemplate is the default system prompt template used by
// ToolBasedIntentRecognizer. The template may contain a single "%s" placeholder for the tool name.
const DefaultParseIntentSystemPromptTemplate = `
You are an assistant for an order-taking robot, helping to understand user input in the context of filling out a form.

Analyze the latest communication between the user and the assistant to determine the user's intent regarding the form.

IMPORTANT: Always combine the assistant's question with the user's answer to determine the true intent. Context is key.

Choose the most appropriate intent from the allowed ones:
- cancel: Only return this if the user explicitly wants to abandon the form (e.g., "cancel", "stop the order", "not hungry anymore"). General negations like "no" or "no onions" are not cancel.
- confirm: Only return this if the user explicitly confirms and submits the current form (e.g., "confirm", "yes, place it", "go ahead"). Return confirm only when the assistant asked for confirmation.
- edit: The user provides or changes form data, such as filling fields or modifying values.
- do_nothing: Purely conversational input or chatter unrelated to the form.

Call the '%s' tool with the result.
`

type PromptBuilder[T any] func(systemPrompt string) structured.PromptBuilder[*types.ToolRequest[T]]

type recognizerOptions[T any] struct {
	systemPromptTemplate string
	promptBuilder        PromptBuilder[T]
}

type Option[T any] func(*recognizerOptions[T])

func WithSystemPromptTemplate[T any](systemPromptTemplate string) Option[T] {
	return func(o *recognizerOptions[T]) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

func WithPromptBuilder[T any](promptBuilder PromptBuilder[T]) Option[T] {
	return func(o *recognizerOptions[T]) {
		o.promptBuilder = promptBuilder
	}
}

func defaultPromptBuilder[T any](systemPrompt string) structured.PromptBuilder[*types.ToolRequest[T]] {
	return func(ctx context.Context, req *types.ToolRequest[T]) ([]*schema.Message, error) {
		message, err := types.FormatToolRequest(req)
		if err != nil {
			return nil, fmt.Errorf("convert to prompt message failed: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(message),
		}, nil
	}
}

type parseIntentInput struct {
	Intent Intent `json:"intent" jsonschema:"required,enum=cancel,enum=confirm,enum=edit,enum=do_nothing,description=The user's command intent"`
}

type ToolBasedIntentRecognizer[T any] struct {
	chain *structured.Chain[*types.ToolRequest[T], parseIntentInput]
}

func NewToolBasedIntentRecognizer[T any](chatModel model.ToolCallingChatModel, opts ...Option[T]) (*ToolBasedIntentRecognizer[T], error) {
	options := recognizerOptions[T]{
		systemPromptTemplate: DefaultParseIntentSystemPromptTemplate,
		promptBuilder:        defaultPromptBuilder[T],
	}
	for _, o := range opts {
		if o != nil {
			o(&options)
		}
	}
	systemPrompt := options.systemPromptTemplate
	if strings.Contains(systemPrompt, "%s") {
		systemPrompt = fmt.Sprintf(systemPrompt, parseIntentToolName)
	}
	chain, err := structured.NewChain[*types.ToolRequest[T], parseIntentInput](
		chatModel,
		options.promptBuilder(systemPrompt),
		parseIntentToolName,
		parseIntentToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedIntentRecognizer[T]{chain: chain}, nil
}

func (p *ToolBasedIntentRecognizer[T]) RecognizeIntent(ctx context.Context, req *types.ToolRequest[T]) (Intent, error) {
	result, err := p.chain.Invoke(ctx, req)
	if err != nil {
		return DoNothing, err
	}
	if !result.Intent.Valid() {
		return DoNothing, fmt.Errorf("unexpected intent %q returned by %s", result.Intent, parseIntentToolName)
	}
	return result.Intent, nil
}
