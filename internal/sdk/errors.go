package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsConflict reports whether err is a backend 409, i.e. the asset already
// exists.
func IsConflict(err error) bool {
	return hasCode(err, http.StatusConflict)
}

// IsUnauthorized reports whether err is a backend 401 or 403.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized) || hasCode(err, http.StatusForbidden)
}

func hasCode(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Code == code
}

// errorFromResponse builds an *HTTPError from a non-2xx response, pulling
// the human readable message out of the JSON body when there is one.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	he := &HTTPError{Code: resp.StatusCode}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"message", "detail", "error"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				he.Message = msg
				break
			}
		}
	}
	if he.Message == "" {
		he.Message = strings.TrimSpace(string(body))
	}
	return he
}
