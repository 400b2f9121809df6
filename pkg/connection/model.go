package connection

import (
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// ServiceError is a non-2xx answer from the service.
// The body looks like {"code":"E404001","error":"No data available."}.
type ServiceError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error,omitempty"`
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	if target == nil {
		return e == nil
	}

	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// NewServiceError builds a ServiceError from a raw error body. Bodies that are
// not JSON become the message verbatim.
func NewServiceError(statusCode int, body []byte) *ServiceError {
	se := &ServiceError{StatusCode: statusCode}

	code, err := jsonparser.GetString(body, "code")
	if err != nil {
		se.Message = strings.TrimSpace(string(body))
		return se
	}
	se.Code = code

	if msg, err := jsonparser.GetString(body, "error"); err == nil {
		se.Message = msg
	}
	return se
}
