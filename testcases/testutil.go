// Package testcases holds conversations against a real chat model. They only run with
// PIZZAFORM_RUN_LIVE_TESTS=1 and a ../config.yaml holding the model settings.
package testcases

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/pizzaform/agent"
	"github.com/tbxark/pizzaform/pizza"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Model struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"model"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(file))), &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q}", c.Model.BaseURL, c.Model.Model)
}

func InitChatModel(t *testing.T) *openai.ChatModel {
	t.Helper()
	if os.Getenv("PIZZAFORM_RUN_LIVE_TESTS") != "1" {
		t.Skip("set PIZZAFORM_RUN_LIVE_TESTS=1 to run live LLM tests")
	}

	conf, err := loadConfig("../config.yaml")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
	}
	if conf.Model.APIKey == "" {
		t.Skip("config.yaml model.api_key is empty")
	}
	t.Logf("using %s", conf)

	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  conf.Model.APIKey,
		Model:   conf.Model.Model,
		BaseURL: conf.Model.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
	}
	return chatModel
}

// TestAgent is one customer talking to the pizza form.
type TestAgent struct {
	agent  *agent.Agent[*pizza.OrderRecord]
	store  *agent.CacheStateReadWriter[*pizza.OrderRecord]
	ctx    context.Context
	Orders []pizza.Order
}

func NewTestAgent(t *testing.T) *TestAgent {
	t.Helper()
	chatModel := InitChatModel(t)

	ta := &TestAgent{ctx: agent.WithStateKey(context.Background(), t.Name())}
	sink := pizza.SinkFunc(func(ctx context.Context, id string, order pizza.Order) error {
		ta.Orders = append(ta.Orders, order)
		return nil
	})
	flow, err := pizza.NewFlow(chatModel, pizza.DefaultSchedule(), sink, "English")
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	ta.store = agent.NewMemoryStateReadWriter(func(ctx context.Context) *pizza.OrderRecord {
		return &pizza.OrderRecord{}
	})
	ta.agent = agent.NewAgent("PizzaBot", pizza.Description, flow, ta.store)
	return ta
}

func (a *TestAgent) Say(t *testing.T, input string) *agent.Response[*pizza.OrderRecord] {
	t.Helper()
	resp, err := a.agent.Chat(a.ctx, input)
	if err != nil {
		t.Fatalf("turn %q failed: %v", input, err)
	}
	if msg := resp.Metadata["error"]; msg != "" {
		t.Fatalf("turn %q reported an error: %s", input, msg)
	}
	t.Logf("user: %s\nbot: %s\nstate: %+v", input, resp.Message, resp.State.FormState)
	return resp
}
