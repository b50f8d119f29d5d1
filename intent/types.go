package intent

import (
	"context"

	"github.com/tbxark/pizzaform/types"
)

type Intent string

const (
	Cancel    Intent = "cancel"
	Confirm   Intent = "confirm"
	Edit      Intent = "edit"
	DoNothing Intent = "do_nothing"
)

func (i Intent) Valid() bool {
	switch i {
	case Cancel, Confirm, Edit, DoNothing:
		return true
	}
	return false
}

type Recognizer[T any] interface {
	RecognizeIntent(ctx context.Context, req *types.ToolRequest[T]) (Intent, error)
}
