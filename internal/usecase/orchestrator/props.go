package orchestrator

import "encoding/json"

// structProps flattens a record into a property bag keyed by its JSON names.
func structProps(v any) map[string]any {
	out := map[string]any{}
	b, err := json.Marshal(v)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(b, &out)
	return out
}
