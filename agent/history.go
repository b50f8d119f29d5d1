package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Trimmer bounds the conversation history handed to the agent.
type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

type TrimmerFunc func(history []*schema.Message) []*schema.Message

func (f TrimmerFunc) Trim(history []*schema.Message) []*schema.Message {
	return f(history)
}

// KeepSystemLastNTrimmer keeps every system message and the newest N others, in order.
// N <= 0 keeps system messages only.
type KeepSystemLastNTrimmer struct {
	N int
}

func (t KeepSystemLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	keep := make([]bool, len(history))
	budget := t.N
	trimmed := false
	for i := len(history) - 1; i >= 0; i-- {
		switch m := history[i]; {
		case m == nil:
			trimmed = true
		case m.Role == schema.System:
			keep[i] = true
		case budget > 0:
			keep[i] = true
			budget--
		default:
			trimmed = true
		}
	}
	if !trimmed {
		return history
	}
	out := make([]*schema.Message, 0, len(history))
	for i, m := range history {
		if keep[i] {
			out = append(out, m)
		}
	}
	return out
}

type HistoryReadWriter interface {
	Load(ctx context.Context) ([]*schema.Message, error)
	Save(ctx context.Context, history []*schema.Message) error
	Clear(ctx context.Context) error

	// Append adds msgs to the stored history and returns what was saved, ready for
	// adk.Runner.Run.
	Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error)
}

var _ HistoryReadWriter = (*HistoryStore)(nil)

// HistoryStore keeps one conversation per context state key.
type HistoryStore struct {
	store   Store[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(core Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{
		store:   NewStore(core, "agent:history", stateKeyOrDefault),
		trimmer: trimmer,
	}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(NewMemoryCache[[]*schema.Message](), trimmer)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, _, err := s.store.Get(ctx)
	return hist, err
}

func (s *HistoryStore) Save(ctx context.Context, history []*schema.Message) error {
	return s.store.Set(ctx, s.bound(nil, history...))
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	hist = s.bound(hist, msgs...)
	if err := s.store.Set(ctx, hist); err != nil {
		return nil, err
	}
	return hist, nil
}

// bound appends msgs to a copy of history, skipping nils and any message that repeats the
// role and content of the one before it, then trims.
func (s *HistoryStore) bound(history []*schema.Message, msgs ...*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history)+len(msgs))
	for _, m := range append(history[:len(history):len(history)], msgs...) {
		if m == nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role && out[n-1].Content == m.Content {
			continue
		}
		out = append(out, m)
	}
	if s.trimmer == nil {
		return out
	}
	return s.trimmer.Trim(out)
}
