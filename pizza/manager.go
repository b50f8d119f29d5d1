package pizza

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tbxark/pizzaform/agent"
)

// Sink receives submitted orders, e.g. to forward them to an order API.
type Sink interface {
	Forward(ctx context.Context, id string, order Order) error
}

type SinkFunc func(ctx context.Context, id string, order Order) error

func (f SinkFunc) Forward(ctx context.Context, id string, order Order) error {
	return f(ctx, id, order)
}

var _ agent.FormManager[*OrderRecord] = (*Manager)(nil)

type Manager struct {
	validator *Validator
	sink      Sink
	newID     func() string
}

// NewManager returns a manager that logs every order and forwards it to sink when not nil.
func NewManager(v *Validator, sink Sink) *Manager {
	return &Manager{validator: v, sink: sink, newID: uuid.NewString}
}

func (m *Manager) Submit(ctx context.Context, form *OrderRecord) error {
	order, err := m.validator.Finalize(form)
	if err != nil {
		return fmt.Errorf("finalize order: %w", err)
	}
	id := m.newID()
	details := order.OrderDetails()
	slog.Info("Pizza order submitted",
		"order_id", id,
		"kind", order.Kind(),
		"pizzas", details.Pizzas,
		"desired_time", details.DesiredTime,
	)
	if m.sink == nil {
		return nil
	}
	if err := m.sink.Forward(ctx, id, order); err != nil {
		return fmt.Errorf("forward order %s: %w", id, err)
	}
	return nil
}

func (m *Manager) Cancel(ctx context.Context, form *OrderRecord) error {
	slog.Info("Pizza order cancelled", "collected", describe(form))
	return nil
}
