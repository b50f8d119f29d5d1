package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pizzaform/agent"
	"github.com/tbxark/pizzaform/pizza"
)

const stateKey = "pizza"

func newFlow(ctx context.Context, conf *Config, sink pizza.Sink) (*agent.FormFlow[*pizza.OrderRecord], error) {
	if offline {
		return pizza.NewOfflineFlow(conf.schedule(), sink)
	}
	if err := conf.requireModel(); err != nil {
		return nil, err
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.Model.APIKey,
		Model:   conf.Model.Model,
		BaseURL: conf.Model.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return pizza.NewFlow(cm, conf.schedule(), sink, conf.Language)
}

func runChat(ctx context.Context, conf *Config, in io.Reader, out io.Writer) error {
	ctx = agent.WithStateKey(ctx, stateKey)

	sink := pizza.SinkFunc(func(ctx context.Context, id string, order pizza.Order) error {
		_, err := fmt.Fprintf(out, "[kitchen] order %s received (%s)\n", id, order.Kind())
		return err
	})
	flow, err := newFlow(ctx, conf, sink)
	if err != nil {
		return err
	}
	store := agent.NewCacheStateReadWriter(
		agent.NewMemoryCacheWithTTL[*agent.State[*pizza.OrderRecord]](conf.SessionTTL),
		func(ctx context.Context) *pizza.OrderRecord { return &pizza.OrderRecord{} },
	)
	historyStore := agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: conf.HistorySize})
	formAgent := agent.NewAgent(
		"PizzaBot",
		"Takes pizza orders through conversation: "+pizza.Description,
		flow,
		store,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: formAgent})

	if err := startOrder(ctx, flow, store); err != nil {
		return err
	}

	fmt.Fprintf(out, "Welcome to the pizzeria. Try %q.\n", pizza.StartExamples[0])
	if offline {
		fmt.Fprintln(out, "Offline mode: answer with pairs like \"pizza: Margherita; delivery: no; time: 20:00\".")
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nBye.")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		history, err := historyStore.Append(ctx, schema.UserMessage(input))
		if err != nil {
			return err
		}
		iter := runner.Run(ctx, history)
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, err := event.Output.MessageOutput.GetMessage()
			if err != nil {
				return err
			}
			if _, err := historyStore.Append(ctx, msg); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nPizzaBot: %s\n======\n", msg.Content)
		}

		// The agent drops the state once an order is submitted or cancelled.
		exists, err := store.Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			slog.Debug("Order finished, starting over")
			if err := historyStore.Clear(ctx); err != nil {
				return err
			}
			if err := startOrder(ctx, flow, store); err != nil {
				return err
			}
		}
	}
}

// startOrder writes a fresh state, prefilled with the customer name when one was given.
func startOrder(ctx context.Context, flow *agent.FormFlow[*pizza.OrderRecord], store *agent.CacheStateReadWriter[*pizza.OrderRecord]) error {
	state := store.InitState(ctx)
	if customer != "" {
		if err := flow.Prefill(state, &pizza.OrderRecord{CustomerName: customer}); err != nil {
			return fmt.Errorf("prefill order: %w", err)
		}
	}
	return store.Write(ctx, state)
}
