package agent

import (
	"context"

	"github.com/tbxark/pizzaform/types"
)

// FormSpec describes a form to the flow. Every method receives the current, possibly
// partial, form so a spec can change its schema while the conversation goes on.
type FormSpec[T any] interface {
	JsonSchema(current T) (string, error)
	AllowedPaths(current T) []string
	FieldGuide(fieldPath string) string

	MissingFacts(current T) []types.FieldInfo
	ValidateFacts(current T) []types.FieldInfo

	Summary(current T) string
}

// FormManager receives the form when the conversation ends.
type FormManager[T any] interface {
	Cancel(ctx context.Context, form T) error
	Submit(ctx context.Context, form T) error
}
