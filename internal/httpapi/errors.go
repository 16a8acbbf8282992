package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is returned when the upstream answered with a non-2xx status.
type APIError struct {
	StatusCode int
	Messages   []string
	Body       string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// TransportError is returned when no usable response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorBody covers both Jira ({"errorMessages":[...],"errors":{...}})
// and Tempo ({"errors":[{"message":...}]}) payloads.
type errorBody struct {
	ErrorMessages []string        `json:"errorMessages"`
	Errors        json.RawMessage `json:"errors"`
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: strings.TrimSpace(string(data))}
	apiErr.Messages = parseErrorMessages(data)
	if len(apiErr.Messages) == 0 && apiErr.Body != "" {
		apiErr.Messages = []string{apiErr.Body}
	}
	return apiErr
}

func parseErrorMessages(data []byte) []string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}

	messages := append([]string(nil), body.ErrorMessages...)
	if len(body.Errors) == 0 {
		return messages
	}

	var fieldErrors map[string]string
	if err := json.Unmarshal(body.Errors, &fieldErrors); err == nil {
		fields := make([]string, 0, len(fieldErrors))
		for field := range fieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			messages = append(messages, fmt.Sprintf("%s: %s", field, fieldErrors[field]))
		}
		return messages
	}

	var listErrors []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Errors, &listErrors); err == nil {
		for _, e := range listErrors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
	}
	return messages
}
