package pizza

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/pizzaform/patch"
)

var _ patch.Generator[*OrderRecord] = (*LocalPatchGenerator)(nil)

// LocalPatchGenerator understands answers written as "field: value" or "field=value" pairs
// separated by ";" or new lines, e.g. "pizza: Margherita; delivery: no; time: 20:00".
// It lets the form run without a model.
type LocalPatchGenerator struct{}

var fieldAliases = map[string]string{
	"pizza":         "pizzas",
	"pizzas":        "pizzas",
	"delivery":      "delivery",
	"deliver":       "delivery",
	"pickup":        "pickup",
	"time":          "desired_time",
	"at":            "desired_time",
	"desired_time":  "desired_time",
	"name":          "customer_name",
	"customer":      "customer_name",
	"customer_name": "customer_name",
	"notes":         "notes",
	"note":          "notes",
	"address":       "address",
}

func (LocalPatchGenerator) GeneratePatch(ctx context.Context, req *patch.Request[*OrderRecord]) (*patch.UpdateFormArgs, error) {
	var ops []patch.Operation
	for _, pair := range strings.FieldsFunc(req.UserAnswer, func(r rune) bool { return r == ';' || r == '\n' }) {
		key, value, ok := cutPair(pair)
		if !ok {
			continue
		}
		field, known := fieldAliases[key]
		if !known {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		fieldOps, err := pairOps(field, value)
		if err != nil {
			return nil, err
		}
		ops = append(ops, fieldOps...)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("no field: value pairs found in %q", req.UserAnswer)
	}
	return &patch.UpdateFormArgs{Ops: ops}, nil
}

// cutPair splits on whichever of "=" or ": " comes first, so values may contain the other.
// A bare colon is not a separator so times survive.
func cutPair(s string) (key, value string, ok bool) {
	at, width := -1, 0
	for _, sep := range []string{"=", ": "} {
		if i := strings.Index(s, sep); i >= 0 && (at < 0 || i < at) {
			at, width = i, len(sep)
		}
	}
	switch {
	case at >= 0:
		key, value, ok = s[:at], s[at+width:], true
	default:
		key, ok = strings.CutSuffix(strings.TrimSpace(s), ":")
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), ok
}

func pairOps(field, value string) ([]patch.Operation, error) {
	switch field {
	case "pizzas":
		// An empty value records an explicitly empty list.
		pizzas := []string{}
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pizzas = append(pizzas, p)
			}
		}
		return []patch.Operation{{Op: patch.OperationReplace, Path: "/pizzas", Value: pizzas}}, nil
	case "delivery", "pickup":
		b, err := parseYesNo(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if field == "pickup" {
			b = !b
		}
		return []patch.Operation{{Op: patch.OperationReplace, Path: "/delivery", Value: b}}, nil
	}
	if value == "" {
		return []patch.Operation{{Op: patch.OperationRemove, Path: "/" + field}}, nil
	}
	return []patch.Operation{{Op: patch.OperationReplace, Path: "/" + field, Value: value}}, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", s)
}
