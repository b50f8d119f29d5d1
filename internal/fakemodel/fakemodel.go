// Package fakemodel provides a scripted chat model for exercising LLM-backed components offline.
package fakemodel

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrExhausted = errors.New("fakemodel: no scripted response left")

var _ model.ToolCallingChatModel = (*ChatModel)(nil)

// ChatModel replays Responses in order. Once exhausted it returns ErrExhausted.
type ChatModel struct {
	mu        sync.Mutex
	Responses []*schema.Message
	Err       error

	Calls   [][]*schema.Message
	Options []*model.Options
	Bound   []*schema.ToolInfo
}

func New(responses ...*schema.Message) *ChatModel {
	return &ChatModel{Responses: responses}
}

// ToolCall builds an assistant message that calls the named tool with raw JSON arguments.
func ToolCall(name, arguments string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{
				ID:   "call_" + name,
				Type: "function",
				Function: schema.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			},
		},
	}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, input)
	m.Options = append(m.Options, model.GetCommonOptions(&model.Options{}, opts...))
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return nil, ErrExhausted
	}
	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	m.Bound = tools
	m.mu.Unlock()
	return m, nil
}

// LastCall returns the messages of the most recent Generate call.
func (m *ChatModel) LastCall() []*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}
