package patch

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/structured"
)

const (
	updateFormToolName        = "update_form"
	updateFormToolDescription = "Emit the RFC6902 operations that write what the user just said into the form."
)

// DefaultPatchSystemPrompt instructs the model how to turn an answer into operations.
const DefaultPatchSystemPrompt = `You turn a customer's answer into edits of a JSON form.
Call the update_form tool with RFC6902 operations:
- Only record information the customer stated explicitly. Never guess.
- Use "replace" to change a value and "add" with the "-" index to append to a list.
- Use "remove" only when the customer withdraws something.
- Touch allowed paths only.
- If the answer carries nothing for the form, return an empty list of operations.`

type generatorOptions struct {
	systemPrompt string
}

type GeneratorOption func(*generatorOptions)

// WithPatchSystemPrompt replaces DefaultPatchSystemPrompt.
func WithPatchSystemPrompt(prompt string) GeneratorOption {
	return func(o *generatorOptions) {
		o.systemPrompt = prompt
	}
}

// ToolBasedPatchGenerator asks a chat model for operations and rejects any that leave the
// allowed paths.
type ToolBasedPatchGenerator[T any] struct {
	chain *structured.Chain[*Request[T], UpdateFormArgs]
}

func NewToolBasedPatchGenerator[T any](chatModel model.ToolCallingChatModel, opts ...GeneratorOption) (*ToolBasedPatchGenerator[T], error) {
	options := generatorOptions{systemPrompt: DefaultPatchSystemPrompt}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	chain, err := structured.NewChain[*Request[T], UpdateFormArgs](
		chatModel,
		func(ctx context.Context, req *Request[T]) ([]*schema.Message, error) {
			body, err := renderPatchRequest(req)
			if err != nil {
				return nil, err
			}
			return []*schema.Message{
				schema.SystemMessage(options.systemPrompt),
				schema.UserMessage(body),
			}, nil
		},
		updateFormToolName,
		updateFormToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedPatchGenerator[T]{chain: chain}, nil
}

func (g *ToolBasedPatchGenerator[T]) GeneratePatch(ctx context.Context, req *Request[T]) (*UpdateFormArgs, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if err := ValidatePatchOperations(result.Ops, NewPathSet(req.AllowedPaths...)); err != nil {
		return nil, fmt.Errorf("generated patches failed validation: %w", err)
	}
	return result, nil
}

// renderPatchRequest lays the request out as markdown sections; empty sections are skipped.
func renderPatchRequest[T any](req *Request[T]) (string, error) {
	stateJSON, err := json.Marshal(req.CurrentState)
	if err != nil {
		return "", fmt.Errorf("marshal form state: %w", err)
	}

	var sb strings.Builder
	section := func(title string, lines ...string) {
		if len(lines) == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("# " + title + ":\n")
		sb.WriteString(strings.Join(lines, "\n"))
	}

	section("Form state JSON", string(stateJSON))
	if req.StateSchema != "" {
		section("Form state schema JSON", req.StateSchema)
	}
	if len(req.AllowedPaths) == 0 {
		section("Allowed paths", "all (no restriction)")
	} else {
		section("Allowed paths", bullets(slices.Sorted(slices.Values(req.AllowedPaths)))...)
	}

	missing := make([]string, 0, len(req.MissingFields))
	for _, f := range req.MissingFields {
		line := fmt.Sprintf("%s [%s]", f.DisplayName, f.JSONPointer)
		if f.Description != "" {
			line += ": " + f.Description
		}
		missing = append(missing, line)
	}
	section("Missing required fields", bullets(missing)...)

	guidance := make([]string, 0, len(req.FieldGuidance))
	for _, path := range sortedKeys(req.FieldGuidance) {
		guidance = append(guidance, path+": "+req.FieldGuidance[path])
	}
	section("Field guidance", bullets(guidance)...)

	if req.AssistantQuestion != "" {
		section("Assistant Question", req.AssistantQuestion)
	}
	if req.UserAnswer != "" {
		section("User Answer", req.UserAnswer)
	}
	return sb.String(), nil
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var _ Generator[any] = (*ToolBasedPatchGenerator[any])(nil)
