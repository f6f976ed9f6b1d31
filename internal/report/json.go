package report

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	jsoniter "github.com/json-iterator/go"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) Decisions(ctx context.Context, decisions []state.Decision) error {
	if decisions == nil {
		decisions = []state.Decision{}
	}
	if err := r.encode(ctx, decisions); err != nil {
		return err
	}
	if anyFailed(decisions) {
		return ErrFailed
	}
	return nil
}

func (r *JSONReporter) Result(ctx context.Context, result Result) error {
	if err := r.encode(ctx, result); err != nil {
		return err
	}
	if !result.OK {
		return ErrFailed
	}
	return nil
}

func (r *JSONReporter) encode(ctx context.Context, v interface{}) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		tflog.Error(ctx, "Failed to encode JSON report", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
