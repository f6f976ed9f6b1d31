// Package report renders reconcile decisions and client call results for the CLI.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/skysqlinc/terraform-provider-statuscake/internal/config"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
)

// Result is the uniform envelope of a direct client call.
type Result struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Raw     interface{} `json:"raw,omitempty"`
}

// Success wraps a payload returned by the client.
func Success(data interface{}) Result {
	r := Result{OK: true, Data: data}
	if resp, ok := data.(*uptime.UpdateResponse); ok {
		r.Data = nil
		if resp != nil {
			r.Message = resp.Message
			r.Data = resp.Data
			r.Raw = resp.Raw
		}
	}
	return r
}

// Failure wraps an error returned by the client.
func Failure(err error) Result {
	return Result{OK: false, Message: err.Error()}
}

type Reporter interface {
	Decisions(ctx context.Context, decisions []state.Decision) error
	Result(ctx context.Context, result Result) error
}

// New returns the reporter for format.
func New(format string, w io.Writer, noColor bool) (Reporter, error) {
	switch format {
	case config.OutputText, "":
		return NewTextReporter(w, noColor), nil
	case config.OutputJSON:
		return NewJSONReporter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// ErrFailed is returned by reporters when at least one decision or result failed.
var ErrFailed = errors.New("one or more operations failed")

func anyFailed(decisions []state.Decision) bool {
	for _, d := range decisions {
		if d.Failed {
			return true
		}
	}
	return false
}
