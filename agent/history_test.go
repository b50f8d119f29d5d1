package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(msgs []*schema.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestKeepSystemLastNTrimmer(t *testing.T) {
	history := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("u1"),
		schema.AssistantMessage("a1", nil),
		schema.UserMessage("u2"),
		schema.AssistantMessage("a2", nil),
	}

	assert.Equal(t, []string{"sys", "u2", "a2"}, contents(KeepSystemLastNTrimmer{N: 2}.Trim(history)))
	assert.Equal(t, []string{"sys"}, contents(KeepSystemLastNTrimmer{N: 0}.Trim(history)))
	assert.Len(t, KeepSystemLastNTrimmer{N: 10}.Trim(history), 5)
	assert.Empty(t, KeepSystemLastNTrimmer{N: 1}.Trim(nil))
}

func TestHistoryStore_Append(t *testing.T) {
	h := NewMemoryHistoryStore(KeepSystemLastNTrimmer{N: 3})
	ctx := WithStateKey(context.Background(), "h")

	hist, err := h.Append(ctx, schema.SystemMessage("sys"), schema.UserMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sys", "hi"}, contents(hist))

	hist, err = h.Append(ctx, schema.UserMessage("hi"), nil, schema.AssistantMessage("hello", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"sys", "hi", "hello"}, contents(hist), "repeated messages are skipped")

	hist, err = h.Append(ctx, schema.UserMessage("pizza"), schema.AssistantMessage("which one?", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"sys", "hello", "pizza", "which one?"}, contents(hist))

	loaded, err := h.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, contents(hist), contents(loaded))

	require.NoError(t, h.Clear(ctx))
	loaded, err = h.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
