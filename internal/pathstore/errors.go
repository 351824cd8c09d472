package pathstore

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotFound is returned when deleting a key that does not exist.
var ErrNotFound = errors.New("pathstore: key not found")

// RetryableError marks failures worth retrying: transport errors, 429 and
// 5xx responses.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// statusError builds the error for an unexpected response, marking it
// retryable when the server may recover.
func statusError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Err: err}
	}
	return err
}
