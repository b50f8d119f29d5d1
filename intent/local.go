package intent

import (
	"context"
	"slices"
	"strings"

	"github.com/tbxark/pizzaform/types"
)

var (
	DefaultCancelKeywords  = []string{"cancel", "quit", "exit", "stop", "取消", "退出", "停止"}
	DefaultConfirmKeywords = []string{"confirm", "submit", "done", "确认", "提交", "好的"}
)

// LocalIntentRecognizer matches the whole, lower-cased answer against keyword lists.
// Anything that is not a command is treated as an edit so the patch generator gets a chance.
type LocalIntentRecognizer[T any] struct {
	CancelKeywords  []string
	ConfirmKeywords []string
}

func NewLocalIntentRecognizer[T any](extraCancel ...string) *LocalIntentRecognizer[T] {
	cancel := slices.Clone(DefaultCancelKeywords)
	for _, k := range extraCancel {
		cancel = append(cancel, strings.ToLower(strings.TrimSpace(k)))
	}
	return &LocalIntentRecognizer[T]{
		CancelKeywords:  cancel,
		ConfirmKeywords: slices.Clone(DefaultConfirmKeywords),
	}
}

func (p *LocalIntentRecognizer[T]) RecognizeIntent(ctx context.Context, req *types.ToolRequest[T]) (Intent, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.MessagePair.Answer))
	normalized = strings.TrimRight(normalized, ".!。！")
	switch {
	case normalized == "":
		return DoNothing, nil
	case slices.Contains(p.CancelKeywords, normalized):
		return Cancel, nil
	case slices.Contains(p.ConfirmKeywords, normalized):
		return Confirm, nil
	}
	return Edit, nil
}

// FailbackRecognizer asks each recognizer in turn and returns the first answer without error.
type FailbackRecognizer[T any] struct {
	recognizers []Recognizer[T]
}

func NewFailbackRecognizer[T any](recognizers ...Recognizer[T]) *FailbackRecognizer[T] {
	return &FailbackRecognizer[T]{recognizers: recognizers}
}

func (p *FailbackRecognizer[T]) RecognizeIntent(ctx context.Context, req *types.ToolRequest[T]) (Intent, error) {
	var lastErr error
	for _, recognizer := range p.recognizers {
		in, err := recognizer.RecognizeIntent(ctx, req)
		if err == nil {
			return in, nil
		}
		lastErr = err
	}
	return DoNothing, lastErr
}
