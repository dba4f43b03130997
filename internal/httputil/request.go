package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"clearview/internal/domain"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ParseJSON decodes a single JSON object from the request body into dest.
// Unknown fields and trailing data are rejected. Errors wrap domain.ErrValidation.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}
	if decoder.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrValidation)
	}

	return nil
}
