package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/types"
)

// ToolBasedDialogueGenerator phrases the next assistant turn with a chat model. With a
// PromptBuilder the model receives the form's lifecycle prompt; otherwise it receives the
// generic formatted request.
type ToolBasedDialogueGenerator[T any] struct {
	Lang                 string
	systemPrompt         string
	systemPromptTemplate string
	prompts              PromptBuilder[T]
	chatModel            model.ToolCallingChatModel
}

// DefaultDialogueSystemPromptTemplate is the default system prompt template used by
// ToolBasedDialogueGenerator. The template may contain a single "%s" placeholder for the language.
const DefaultDialogueSystemPromptTemplate = `You are the voice of a busy form assistant. Engage in natural, conversational dialogue to guide users through form completion.

Respond as if chatting with a customer:
- If there are missing required fields, casually ask for them. Don't list all at once if there are many.
- If there are validation errors, point them out and suggest a correction in plain language.
- If all fields are complete and correct, ask whether they want to submit.
- When you are given an instruction describing what to say, follow it and reply with the final message only.
- Keep it short; avoid lists or bullet points.
- Reply in %s.
`

const defaultLang = "English"

type generatorOptions[T any] struct {
	lang                 string
	systemPrompt         string
	systemPromptTemplate string
	prompts              PromptBuilder[T]
}

type GeneratorOption[T any] func(*generatorOptions[T])

// WithDialogueLang sets the language used by the default system prompt template.
func WithDialogueLang[T any](lang string) GeneratorOption[T] {
	return func(o *generatorOptions[T]) {
		o.lang = lang
	}
}

// WithDialogueSystemPrompt overrides the system prompt.
func WithDialogueSystemPrompt[T any](systemPrompt string) GeneratorOption[T] {
	return func(o *generatorOptions[T]) {
		o.systemPrompt = systemPrompt
	}
}

// WithDialogueSystemPromptTemplate overrides the system prompt template.
// If the template contains "%s", it will be formatted with the language.
func WithDialogueSystemPromptTemplate[T any](systemPromptTemplate string) GeneratorOption[T] {
	return func(o *generatorOptions[T]) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

// WithPromptBuilder makes the generator send the form's lifecycle prompts.
func WithPromptBuilder[T any](prompts PromptBuilder[T]) GeneratorOption[T] {
	return func(o *generatorOptions[T]) {
		o.prompts = prompts
	}
}

func NewToolBasedDialogueGenerator[T any](chatModel model.ToolCallingChatModel, opts ...GeneratorOption[T]) *ToolBasedDialogueGenerator[T] {
	options := generatorOptions[T]{
		lang:                 defaultLang,
		systemPromptTemplate: DefaultDialogueSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.lang == "" {
		options.lang = defaultLang
	}
	return &ToolBasedDialogueGenerator[T]{
		Lang:                 options.lang,
		systemPrompt:         options.systemPrompt,
		systemPromptTemplate: options.systemPromptTemplate,
		prompts:              options.prompts,
		chatModel:            chatModel,
	}
}

func (g *ToolBasedDialogueGenerator[T]) GenerateDialogue(ctx context.Context, req *types.ToolRequest[T]) (string, error) {
	messages, err := g.buildDialoguePrompt(req)
	if err != nil {
		return "", fmt.Errorf("build dialogue prompt: %w", err)
	}

	response, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("LLM call failed: empty response")
	}
	return response.Content, nil
}

func (g *ToolBasedDialogueGenerator[T]) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest[T]) (*schema.StreamReader[string], error) {
	messages, err := g.buildDialoguePrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build dialogue prompt: %w", err)
	}

	stream, err := g.chatModel.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLM stream call failed: %w", err)
	}
	textStream := schema.StreamReaderWithConvert(stream, func(message *schema.Message) (string, error) {
		return message.Content, nil
	})
	return textStream, nil
}

func (g *ToolBasedDialogueGenerator[T]) buildDialoguePrompt(req *types.ToolRequest[T]) ([]*schema.Message, error) {
	var message string
	if g.prompts != nil {
		message = LifecyclePrompt(g.prompts, req)
	} else {
		formatted, err := types.FormatToolRequest(req)
		if err != nil {
			return nil, fmt.Errorf("convert to prompt message failed: %w", err)
		}
		message = formatted
	}
	slog.Debug("Built dialogue prompt", "phase", req.Phase, "lifecycle", g.prompts != nil, "prompt_len", len(message))

	return []*schema.Message{
		schema.SystemMessage(g.renderSystemPrompt()),
		schema.UserMessage(message),
	}, nil
}

func (g *ToolBasedDialogueGenerator[T]) renderSystemPrompt() string {
	if g.systemPrompt != "" {
		return g.systemPrompt
	}
	tpl := g.systemPromptTemplate
	if tpl == "" {
		tpl = DefaultDialogueSystemPromptTemplate
	}
	if strings.Contains(tpl, "%s") {
		return fmt.Sprintf(tpl, g.Lang)
	}
	return tpl
}
