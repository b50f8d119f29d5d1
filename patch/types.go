package patch

import (
	"context"

	"github.com/tbxark/pizzaform/types"
)

const (
	OperationAdd     = "add"
	OperationRemove  = "remove"
	OperationReplace = "replace"
)

type Operation struct {
	Op    string `json:"op" jsonschema:"required,enum=add,enum=remove,enum=replace,description=RFC6902 operation"`
	Path  string `json:"path" jsonschema:"required,description=JSON pointer of the field to change"`
	Value any    `json:"value,omitempty" jsonschema:"description=New value for add and replace"`
}

type UpdateFormArgs struct {
	Ops []Operation `json:"ops" jsonschema:"description=RFC6902 JSON Patch operations to apply to the form"`
}

type Request[T any] struct {
	CurrentState T
	StateSchema  string
	AllowedPaths []string

	MissingFields []types.FieldInfo
	FieldGuidance map[string]string

	AssistantQuestion string
	UserAnswer        string
}

type Generator[T any] interface {
	GeneratePatch(ctx context.Context, req *Request[T]) (*UpdateFormArgs, error)
}
