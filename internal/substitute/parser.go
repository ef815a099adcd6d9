package substitute

import (
	"fmt"

	"kitchen-companion/internal/shared"
)

// SchemaError reports model output that could not be turned into substitutions.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "substitution schema error: " + e.Reason
}

// ParseSubstitutions reads {"substitutions": [{"substitution", "note"}, ...]}
// from raw model output. The list must be a non-empty array.
func ParseSubstitutions(content string) ([]Substitution, error) {
	obj, err := shared.DecodeObject(shared.StripFences(content))
	if err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}

	items, ok := obj["substitutions"].([]any)
	if !ok {
		return nil, &SchemaError{Reason: "substitutions is missing or not an array"}
	}
	if len(items) == 0 {
		return nil, &SchemaError{Reason: "substitutions is empty"}
	}

	out := make([]Substitution, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, Substitution{
				Substitution: shared.CoerceString(v["substitution"], "Unknown substitute"),
				Note:         shared.CoerceString(v["note"], "No additional notes"),
			})
		case string:
			out = append(out, Substitution{
				Substitution: shared.CoerceString(v, "Unknown substitute"),
				Note:         "No additional notes",
			})
		default:
			return nil, &SchemaError{Reason: fmt.Sprintf("substitutions[%d] is not an object", i)}
		}
	}
	return out, nil
}
