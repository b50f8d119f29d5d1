package pizza

import (
	"errors"

	"github.com/tbxark/pizzaform/agent"
	"github.com/tbxark/pizzaform/types"
)

const Description = "Pizza Order"

var (
	StartExamples = []string{"order a pizza!", "I want pizza"}
	StopExamples  = []string{"stop pizza order", "not hungry anymore"}
)

var _ agent.FormSpec[*OrderRecord] = (*FormSpec)(nil)

type FormSpec struct {
	validator *Validator
}

func NewFormSpec(v *Validator) *FormSpec {
	return &FormSpec{validator: v}
}

func (s *FormSpec) JsonSchema(current *OrderRecord) (string, error) {
	return SelectSchema(current).Document()
}

func (s *FormSpec) AllowedPaths(current *OrderRecord) []string {
	return SelectSchema(current).AllowedPaths()
}

var fieldGuides = map[string]string{
	"/pizzas":       "Append each pizza as its own item, e.g. Margherita.",
	"/delivery":     "Set true for delivery and false for pickup. If delivery, also capture the address when given.",
	"/desired_time": "Use 24-hour HH:MM, e.g. 20:00.",
	"/address":      "Street, number and town as spoken by the customer.",
}

func (s *FormSpec) FieldGuide(fieldPath string) string {
	return fieldGuides[fieldPath]
}

func (s *FormSpec) MissingFacts(current *OrderRecord) []types.FieldInfo {
	return SelectSchema(current).Missing(current)
}

var issueDescriptions = map[string]string{
	CodeEmptyList: "the pizza list cannot be empty",
	CodeSlotTaken: "the desired time is already taken",
}

func (s *FormSpec) ValidateFacts(current *OrderRecord) []types.FieldInfo {
	fieldErrs := s.validator.Check(current)
	if len(fieldErrs) == 0 {
		return nil
	}
	issues := make([]types.FieldInfo, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		code := fe.Code()
		desc, ok := issueDescriptions[code]
		if !ok {
			desc = errors.Unwrap(fe).Error()
		}
		issues = append(issues, types.FieldInfo{
			JSONPointer: "/" + fe.Field,
			DisplayName: fe.Field,
			Description: desc,
			Code:        code,
		})
	}
	return issues
}

func (s *FormSpec) Summary(current *OrderRecord) string {
	return "So, this is what we've got: " + describe(current) + "."
}
