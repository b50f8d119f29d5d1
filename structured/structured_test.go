package structured

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pizzaform/internal/fakemodel"
)

type orderInput struct {
	Text string
}

type orderExtraction struct {
	Pizzas      []string `json:"pizzas" jsonschema:"description=Pizzas requested by the customer,required"`
	DesiredTime string   `json:"desired_time" jsonschema:"description=Desired time in HH:MM"`
}

func buildOrderPrompt(ctx context.Context, input orderInput) ([]*schema.Message, error) {
	if input.Text == "" {
		return nil, errors.New("empty input")
	}
	return []*schema.Message{
		schema.SystemMessage("Extract the pizza order by calling extract_order."),
		schema.UserMessage(input.Text),
	}, nil
}

func newOrderChain(t *testing.T, cm *fakemodel.ChatModel) *Chain[orderInput, orderExtraction] {
	t.Helper()
	chain, err := NewChain[orderInput, orderExtraction](cm, buildOrderPrompt, "extract_order", "Extract a pizza order")
	require.NoError(t, err)
	return chain
}

func TestChain_Invoke(t *testing.T) {
	cm := fakemodel.New(fakemodel.ToolCall("extract_order", `{"pizzas":["Margherita","Diavola"],"desired_time":"20:00"}`))
	chain := newOrderChain(t, cm)

	got, err := chain.Invoke(context.Background(), orderInput{Text: "two pizzas, margherita and diavola, at 8pm"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Margherita", "Diavola"}, got.Pizzas)
	assert.Equal(t, "20:00", got.DesiredTime)

	require.Len(t, cm.Options, 1)
	opts := cm.Options[0]
	require.Len(t, opts.Tools, 1)
	assert.Equal(t, "extract_order", opts.Tools[0].Name)
	assert.Equal(t, "extract_order", chain.GetToolInfo().Name)
}

func TestChain_InvokeErrors(t *testing.T) {
	t.Run("prompt builder fails", func(t *testing.T) {
		chain := newOrderChain(t, fakemodel.New())
		_, err := chain.Invoke(context.Background(), orderInput{})
		assert.ErrorContains(t, err, "build prompt failed")
	})

	t.Run("model fails", func(t *testing.T) {
		cm := fakemodel.New()
		cm.Err = errors.New("boom")
		chain := newOrderChain(t, cm)
		_, err := chain.Invoke(context.Background(), orderInput{Text: "pizza"})
		assert.ErrorContains(t, err, "call model failed")
	})

	t.Run("no tool call", func(t *testing.T) {
		chain := newOrderChain(t, fakemodel.New(schema.AssistantMessage("I like pizza", nil)))
		_, err := chain.Invoke(context.Background(), orderInput{Text: "pizza"})
		assert.ErrorContains(t, err, "no ToolCall found")
	})

	t.Run("bad arguments", func(t *testing.T) {
		chain := newOrderChain(t, fakemodel.New(fakemodel.ToolCall("extract_order", `{"pizzas":`)))
		_, err := chain.Invoke(context.Background(), orderInput{Text: "pizza"})
		assert.ErrorContains(t, err, "parse ToolCall arguments failed")
	})
}

func TestChain_Stream(t *testing.T) {
	cm := fakemodel.New(fakemodel.ToolCall("extract_order", `{"pizzas":["Pepperoni"]}`))
	chain := newOrderChain(t, cm)

	stream, err := chain.Stream(context.Background(), orderInput{Text: "pepperoni please"})
	require.NoError(t, err)
	defer stream.Close()

	got, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepperoni"}, got.Pizzas)
}
