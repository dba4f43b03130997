package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
)

// OptionalBool tracks whether a boolean field was present in a JSON body.
// A missing field and an explicit false decode differently:
//   - Present=false: field absent from JSON
//   - Present=true, Value=false/true: field set
//
// JSON null is rejected.
type OptionalBool struct {
	Present bool
	Value   bool
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return errors.New("must be true or false, not null")
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Present = true
	return nil
}
