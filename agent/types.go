package agent

import (
	"github.com/tbxark/pizzaform/types"
)

type State[T any] struct {
	Phase          types.Phase `json:"phase" jsonschema:"enum=collecting,enum=confirming,enum=confirmed,enum=cancelled,description=The current phase of the form filling process"`
	FormState      T           `json:"form_state" jsonschema:"description=The current state of the form being filled"`
	LatestQuestion string      `json:"latest_question,omitempty"`
}

type Request[T any] struct {
	State     *State[T] `json:"state"`
	UserInput string    `json:"user_input"`
}

type Response[T any] struct {
	Message  string            `json:"message,omitempty"`
	State    *State[T]         `json:"state,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Completed reports whether the form was submitted or cancelled this turn.
func (r *Response[T]) Completed() bool {
	return r != nil && r.State != nil && r.State.Phase.Terminal()
}
