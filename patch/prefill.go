package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// GeneratePatchesFromInitial returns the operations that copy every non-zero value of initial
// onto current. Zero values in initial never clear a field of current.
func GeneratePatchesFromInitial[T any](current, initial T) ([]Operation, error) {
	currentMap, err := toObject(current)
	if err != nil {
		return nil, fmt.Errorf("failed to convert current state: %w", err)
	}
	initialMap, err := toObject(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to convert initial state: %w", err)
	}

	patches := make([]Operation, 0)
	diffObjects("", currentMap, initialMap, &patches)
	return patches, nil
}

func toObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func diffObjects(prefix string, current, initial map[string]any, patches *[]Operation) {
	keys := make([]string, 0, len(initial))
	for key := range initial {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		initialValue := initial[key]
		if isZeroValue(initialValue) {
			continue
		}

		path := prefix + "/" + pointerEscaper.Replace(key)
		currentValue, existsInCurrent := current[key]

		if initialObject, ok := initialValue.(map[string]any); ok {
			if currentObject, ok := currentValue.(map[string]any); ok {
				diffObjects(path, currentObject, initialObject, patches)
			} else {
				*patches = append(*patches, Operation{Op: OperationReplace, Path: path, Value: initialValue})
			}
			continue
		}

		switch {
		case !existsInCurrent:
			*patches = append(*patches, Operation{Op: OperationAdd, Path: path, Value: initialValue})
		case !reflect.DeepEqual(currentValue, initialValue):
			*patches = append(*patches, Operation{Op: OperationReplace, Path: path, Value: initialValue})
		}
	}
}

func isZeroValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
