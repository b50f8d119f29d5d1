package types

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
	PhaseConfirmed  Phase = "confirmed"
	PhaseCancelled  Phase = "cancelled"
)

// Terminal reports whether the form is finished and its state can be discarded.
func (p Phase) Terminal() bool {
	return p == PhaseConfirmed || p == PhaseCancelled
}

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code,omitempty"`
	Required    bool   `json:"required"`
}

type MessagePair struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type ToolRequest[T any] struct {
	State       T
	StateSchema string
	Phase       Phase
	MessagePair MessagePair

	MissingFields    []FieldInfo
	ValidationErrors []FieldInfo
}
