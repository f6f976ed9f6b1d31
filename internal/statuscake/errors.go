package statuscake

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse is the body StatusCake returns when a read fails.
type ErrorResponse struct {
	ErrNo   interface{} `json:"ErrNo"`
	Message string      `json:"Error"`
}

var (
	ErrorTestNotFound       = errors.New("test not found")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorTransport          = errors.New("statuscake request failed")
	ErrorMissingCredentials = errors.New("missing statuscake credentials")
	ErrorRemote             = errors.New("statuscake api error")
	ErrorAmbiguousMatch     = errors.New("ambiguous test name")
	ErrorEmptyName          = errors.New("a test name is required")
)

// CredentialsError names the credential that could not be resolved.
type CredentialsError struct {
	Field string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("No Statuscake %s found", e.Field)
}

func (e *CredentialsError) Unwrap() error {
	return ErrorMissingCredentials
}

// RemoteError is returned when StatusCake rejected a request.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("StatusCake API returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *RemoteError) Unwrap() error {
	return ErrorRemote
}

// TestNotFoundError is returned by searches that matched nothing.
type TestNotFoundError struct {
	Name string
}

func (e *TestNotFoundError) Error() string {
	return fmt.Sprintf("No test found with this name : %s", e.Name)
}

func (e *TestNotFoundError) Unwrap() error {
	return ErrorTestNotFound
}

// AmbiguousMatchError is returned when several tests share a name.
type AmbiguousMatchError struct {
	Name    string
	Matches []int64
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("We have multiple test with this name : %s", e.Name)
}

func (e *AmbiguousMatchError) Unwrap() error {
	return ErrorAmbiguousMatch
}
