package agent

import (
	"context"

	"github.com/tbxark/pizzaform/types"
)

// StateReadWriter provides read/write access to state using context for routing.
type StateReadWriter[T any] interface {
	InitState(ctx context.Context) *State[T]
	Remove(ctx context.Context) error
	Read(ctx context.Context) (*State[T], error)
	Write(ctx context.Context, state *State[T]) error
}

type stateKeyContext struct{}

const defaultStateKey = "default"

// WithStateKey sets a routing key for state storage in the context.
func WithStateKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, stateKeyContext{}, key)
}

// StateKeyFromContext gets the routing key from the context.
func StateKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(stateKeyContext{}).(string)
	return key, ok && key != ""
}

func stateKeyOrDefault(ctx context.Context) (string, bool) {
	if key, ok := StateKeyFromContext(ctx); ok {
		return key, true
	}
	return defaultStateKey, true
}

var _ StateReadWriter[int] = (*CacheStateReadWriter[int])(nil)

// CacheStateReadWriter keeps one State per context key in a Cache. Contexts without a key
// share the "default" slot.
type CacheStateReadWriter[T any] struct {
	store      Store[*State[T]]
	customInit func(ctx context.Context) T
}

func NewCacheStateReadWriter[T any](core Cache[*State[T]], customInit func(ctx context.Context) T) *CacheStateReadWriter[T] {
	return &CacheStateReadWriter[T]{
		store:      NewStore(core, "agent:state", stateKeyOrDefault),
		customInit: customInit,
	}
}

// NewMemoryStateReadWriter is an in-memory implementation for testing and local usage.
func NewMemoryStateReadWriter[T any](customInit func(ctx context.Context) T) *CacheStateReadWriter[T] {
	return NewCacheStateReadWriter(NewMemoryCache[*State[T]](), customInit)
}

func (m *CacheStateReadWriter[T]) InitState(ctx context.Context) *State[T] {
	state := &State[T]{Phase: types.PhaseCollecting}
	if m.customInit != nil {
		state.FormState = m.customInit(ctx)
	}
	return state
}

func (m *CacheStateReadWriter[T]) Read(ctx context.Context) (*State[T], error) {
	state, ok, err := m.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || state == nil {
		return m.InitState(ctx), nil
	}
	return state, nil
}

func (m *CacheStateReadWriter[T]) Write(ctx context.Context, state *State[T]) error {
	if state.Phase == "" {
		state.Phase = types.PhaseCollecting
	}
	return m.store.Set(ctx, state)
}

func (m *CacheStateReadWriter[T]) Remove(ctx context.Context) error {
	return m.store.Del(ctx)
}

// Exists reports whether a state has been written for the context's key.
func (m *CacheStateReadWriter[T]) Exists(ctx context.Context) (bool, error) {
	return m.store.Exists(ctx)
}
