package httputil

import (
	"encoding/json"
	"net/http"

	"clearview/internal/domain"
)

// RespondJSON marshals data before touching the headers so an encoding
// failure still yields a clean 500
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondProblem(w, nil, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondResult writes a result envelope. The status comes from the failure
// kind, or ok when the result succeeded.
func RespondResult[T any](w http.ResponseWriter, ok int, result domain.Result[T]) {
	status := ok
	if !result.Success && result.Error != nil {
		status = result.Error.Kind.Status()
	}
	RespondJSON(w, status, result)
}

// RespondFailure writes the failure envelope for err
func RespondFailure(w http.ResponseWriter, err error) {
	RespondResult(w, http.StatusOK, domain.Result[any]{Error: domain.FailureOf(err)})
}

// Problem is an RFC 7807 body for failures raised outside a use case,
// such as a panic or a rejected rate limit
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// RespondProblem writes a problem+json body for status. Instance is the request path.
func RespondProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	problem := Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if r != nil {
		problem.Instance = r.URL.Path
	}

	payload, _ := json.Marshal(problem)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	w.Write(payload)
}
