package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*Agent[any])(nil)

// Agent exposes a FormFlow as an adk.Agent. The form state lives in the StateReadWriter
// under the context's state key and is removed once the form is submitted or cancelled.
type Agent[T any] struct {
	name        string
	description string
	flow        *FormFlow[T]
	store       StateReadWriter[T]
}

func NewAgent[T any](name, description string, flow *FormFlow[T], store StateReadWriter[T]) *Agent[T] {
	return &Agent[T]{
		name:        name,
		description: description,
		flow:        flow,
		store:       store,
	}
}

func (a *Agent[T]) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent[T]) Description(ctx context.Context) string {
	return a.description
}

// Chat runs a single turn for the context's conversation.
func (a *Agent[T]) Chat(ctx context.Context, userInput string) (*Response[T], error) {
	state, err := a.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	resp, err := a.flow.Invoke(ctx, &Request[T]{State: state, UserInput: userInput})
	if err != nil {
		return nil, fmt.Errorf("flow invoke failed: %w", err)
	}
	if resp.Completed() {
		slog.Debug("Form finished, discarding state", "phase", resp.State.Phase)
		err = a.store.Remove(ctx)
	} else {
		err = a.store.Write(ctx, resp.State)
	}
	if err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}
	return resp, nil
}

func (a *Agent[T]) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			if e := recover(); e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: errors.New("no messages in input"),
			})
			return
		}
		resp, err := a.Chat(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: err})
			return
		}
		gen.Send(&adk.AgentEvent{
			AgentName: a.name,
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message:     schema.AssistantMessage(resp.Message, nil),
					Role:        schema.Assistant,
				},
			},
		})
	}()
	return iter
}
