package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pizzaform/patch"
	"github.com/tbxark/pizzaform/types"
)

func newBookingAgent(t *testing.T, manager *recordingManager) (*Agent[*booking], *CacheStateReadWriter[*booking]) {
	t.Helper()
	patches := &scriptedPatches{ops: map[string][]patch.Operation{
		"title lunch": {{Op: patch.OperationReplace, Path: "/title", Value: "lunch"}},
	}}
	store := NewMemoryStateReadWriter(func(ctx context.Context) *booking { return &booking{} })
	return NewAgent("booking", "Books tables", newBookingFlow(t, manager, patches), store), store
}

func TestAgent_Chat(t *testing.T) {
	manager := &recordingManager{}
	a, store := newBookingAgent(t, manager)
	ctx := WithStateKey(context.Background(), "u1")

	assert.Equal(t, "booking", a.Name(ctx))
	assert.Equal(t, "Books tables", a.Description(ctx))

	resp, err := a.Chat(ctx, "title lunch")
	require.NoError(t, err)
	assert.Equal(t, types.PhaseConfirming, resp.State.Phase)

	saved, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lunch", saved.FormState.Title)

	other, err := store.Read(WithStateKey(context.Background(), "u2"))
	require.NoError(t, err)
	assert.Empty(t, other.FormState.Title, "state is keyed per conversation")

	_, err = a.Chat(ctx, "confirm")
	require.NoError(t, err)
	require.Len(t, manager.submitted, 1)

	fresh, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh.FormState.Title)
	assert.Equal(t, types.PhaseCollecting, fresh.Phase)
}

func TestAgent_Run(t *testing.T) {
	a, _ := newBookingAgent(t, &recordingManager{})
	ctx := WithStateKey(context.Background(), "run")

	iter := a.Run(ctx, &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("title lunch")}})
	event, ok := iter.Next()
	require.True(t, ok)
	require.NoError(t, event.Err)
	assert.Equal(t, "booking", event.AgentName)
	require.NotNil(t, event.Output)
	msg := event.Output.MessageOutput.Message
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Contains(t, msg.Content, "Do you want to confirm?")

	_, ok = iter.Next()
	assert.False(t, ok)
}

func TestAgent_RunWithoutMessages(t *testing.T) {
	a, _ := newBookingAgent(t, &recordingManager{})

	iter := a.Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.ErrorContains(t, event.Err, "no messages")
}
