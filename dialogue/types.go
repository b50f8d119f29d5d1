package dialogue

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/types"
)

type Generator[T any] interface {
	GenerateDialogue(ctx context.Context, req *types.ToolRequest[T]) (string, error)
	GenerateDialogueStream(ctx context.Context, req *types.ToolRequest[T]) (*schema.StreamReader[string], error)
}

// PromptBuilder renders the form-specific prompt for each lifecycle point of a form.
// Implementations must accept partially filled forms.
type PromptBuilder[T any] interface {
	SubmitPrompt(form T) string
	CancelPrompt() string
	ConfirmPrompt(form T) string
	IncompletePrompt(form T, missing, issues []types.FieldInfo) string
}

// LifecyclePrompt picks the prompt matching the request phase.
func LifecyclePrompt[T any](b PromptBuilder[T], req *types.ToolRequest[T]) string {
	switch req.Phase {
	case types.PhaseConfirmed:
		return b.SubmitPrompt(req.State)
	case types.PhaseCancelled:
		return b.CancelPrompt()
	case types.PhaseConfirming:
		return b.ConfirmPrompt(req.State)
	default:
		return b.IncompletePrompt(req.State, req.MissingFields, req.ValidationErrors)
	}
}
