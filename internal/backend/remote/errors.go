package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"

	"todos/internal/service"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int    // HTTP status code
	Status  string // status text, e.g. "Not Found"
	Message string // server-provided message from the error envelope, if any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API %d: %s", e.Code, e.Status)
}

// Is lets a 404 match service.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == service.ErrNotFound && e.Code == http.StatusNotFound
}

// checkResponse returns a *StatusError for non-2xx responses.
// googleapi.CheckResponse reads the body and decodes the
// {"error":{"code":..,"message":..}} envelope the todos server sends.
func checkResponse(resp *http.Response) error {
	err := googleapi.CheckResponse(resp)
	if err == nil {
		return nil
	}

	serr := &StatusError{
		Code:   resp.StatusCode,
		Status: statusText(resp),
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		serr.Message = gerr.Message
	}
	return serr
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
