package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/types"
)

// LocalDialogueGenerator answers without a model. It is meant as the last link of a
// FailbackDialogueGenerator.
type LocalDialogueGenerator[T any] struct {
	MergeAllUnvalidatedFields bool
	Summary                   func(form T) string
}

func (g *LocalDialogueGenerator[T]) GenerateDialogue(ctx context.Context, req *types.ToolRequest[T]) (string, error) {
	switch req.Phase {
	case types.PhaseCollecting:
		var lines []string
		for _, issue := range req.ValidationErrors {
			if issue.Description != "" {
				lines = append(lines, fmt.Sprintf("%s is invalid: %s", fieldLabel(issue), issue.Description))
			} else {
				lines = append(lines, fmt.Sprintf("%s is invalid.", fieldLabel(issue)))
			}
			if !g.MergeAllUnvalidatedFields {
				return strings.Join(lines, "\n"), nil
			}
		}
		for _, field := range req.MissingFields {
			if field.Description != "" {
				lines = append(lines, fmt.Sprintf("Please tell me %s (%s).", fieldLabel(field), field.Description))
			} else {
				lines = append(lines, fmt.Sprintf("Please tell me %s.", fieldLabel(field)))
			}
			if !g.MergeAllUnvalidatedFields {
				return strings.Join(lines, "\n"), nil
			}
		}
		if len(lines) == 0 {
			return "Please continue filling in the form.", nil
		}
		return strings.Join(lines, "\n"), nil

	case types.PhaseConfirming:
		if g.Summary != nil {
			return fmt.Sprintf("%s\nDo you want to confirm?", g.Summary(req.State)), nil
		}
		return "All set. Do you want to confirm?", nil

	case types.PhaseConfirmed:
		return "The form has been submitted.", nil

	case types.PhaseCancelled:
		return "The form has been cancelled.", nil

	default:
		return "Please continue filling in the form.", nil
	}
}

func fieldLabel(f types.FieldInfo) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return strings.TrimPrefix(f.JSONPointer, "/")
}

func (g *LocalDialogueGenerator[T]) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest[T]) (*schema.StreamReader[string], error) {
	message, err := g.GenerateDialogue(ctx, req)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]string{message}), nil
}

type FailbackDialogueGenerator[T any] struct {
	generators []Generator[T]
}

func NewFailbackDialogueGenerator[T any](generators ...Generator[T]) *FailbackDialogueGenerator[T] {
	return &FailbackDialogueGenerator[T]{generators: generators}
}

func (g *FailbackDialogueGenerator[T]) GenerateDialogue(ctx context.Context, req *types.ToolRequest[T]) (string, error) {
	var lastErr error
	for _, generator := range g.generators {
		message, err := generator.GenerateDialogue(ctx, req)
		if err == nil {
			return message, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all dialogue generators failed: %w", lastErr)
}

func (g *FailbackDialogueGenerator[T]) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest[T]) (*schema.StreamReader[string], error) {
	var lastErr error
	for _, generator := range g.generators {
		stream, err := generator.GenerateDialogueStream(ctx, req)
		if err == nil {
			return stream, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all dialogue generators failed: %w", lastErr)
}
