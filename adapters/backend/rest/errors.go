package rest

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "afmdash/internal/errors"
)

// BackendError carries the messages the backend reported for a failed call
type BackendError struct {
	StatusCode int
	Messages   []string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// checkHTTPErrors turns a non-2xx response into an EXTERNAL_SERVICE_ERROR
// carrying the backend's own messages
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var messages []string
	if gjson.ValidBytes(body) {
		messages = messagesFrom(gjson.ParseBytes(body))
	}
	if len(messages) == 0 {
		messages = []string{fmt.Sprintf("request failed with status %d", resp.StatusCode)}
	}
	return apperrors.ExternalServiceError(serviceName, &BackendError{StatusCode: resp.StatusCode, Messages: messages})
}

// messagesFrom understands {detail:{errors,message}}, {detail:"..."},
// {errors:[...]}, {message} and {error}
func messagesFrom(root gjson.Result) []string {
	detail := root.Get("detail")
	switch {
	case detail.IsObject():
		if msgs := stringList(detail.Get("errors")); len(msgs) > 0 {
			return msgs
		}
		if m := detail.Get("message").String(); m != "" {
			return []string{m}
		}
	case detail.Type == gjson.String:
		return []string{detail.String()}
	}
	if msgs := stringList(root.Get("errors")); len(msgs) > 0 {
		return msgs
	}
	for _, key := range []string{"message", "error"} {
		if m := root.Get(key).String(); m != "" {
			return []string{m}
		}
	}
	return nil
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, item := range v.Array() {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
