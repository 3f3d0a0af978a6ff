// internal/models/codec.go
package models

import "encoding/json"

// Encode flattens any stage object into a plain key-value map for the
// persistence collaborator.
func Encode(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode reconstructs a stage object from a persisted key-value map. Unknown
// keys are dropped and missing keys are left at their zero value, so decoding
// tolerates schema drift in both directions.
func Decode(data map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
