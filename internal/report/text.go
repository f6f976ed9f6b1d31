package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/locations"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
)

type TextReporter struct {
	writer io.Writer

	red    func(a ...interface{}) string
	yellow func(a ...interface{}) string
	green  func(a ...interface{}) string
	cyan   func(a ...interface{}) string
}

func NewTextReporter(w io.Writer, noColor bool) *TextReporter {
	colorize := func(attr color.Attribute) func(a ...interface{}) string {
		c := color.New(attr)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &TextReporter{
		writer: w,
		red:    colorize(color.FgRed),
		yellow: colorize(color.FgYellow),
		green:  colorize(color.FgGreen),
		cyan:   colorize(color.FgCyan),
	}
}

func (r *TextReporter) Decisions(ctx context.Context, decisions []state.Decision) error {
	if len(decisions) == 0 {
		fmt.Fprintln(r.writer, "Nothing to reconcile.")
		return nil
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Status\tName\tComment")
	fmt.Fprintln(tw, "------\t----\t-------")

	var changed, pending, failed, unchanged int
	for _, d := range decisions {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var status string
		switch {
		case d.Failed:
			failed++
			status = r.red("[FAILED]")
		case d.Pending:
			pending++
			status = r.yellow("[PENDING]")
		case d.Changed:
			changed++
			status = r.cyan("[CHANGED]")
		default:
			unchanged++
			status = r.green("[OK]")
		}

		comment := d.Comment
		if d.Error != "" {
			comment += " " + d.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", status, d.Name, comment)
	}

	fmt.Fprintf(tw, "\nSummary: %d changed, %d pending, %d unchanged, %d failed\n", changed, pending, unchanged, failed)
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return ErrFailed
	}
	return nil
}

func (r *TextReporter) Result(ctx context.Context, result Result) error {
	if !result.OK {
		fmt.Fprintf(r.writer, "%s %s\n", r.red("[FAILED]"), result.Message)
		return ErrFailed
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	switch data := result.Data.(type) {
	case []uptime.Test:
		fmt.Fprintln(tw, "TestID\tName\tURL\tType\tCheckRate\tStatus\tPaused")
		for _, t := range data {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%t\n", t.TestID, t.WebsiteName, t.WebsiteURL, t.TestType, t.CheckRate, t.Status, t.Paused)
		}
	case *uptime.TestDetails:
		fmt.Fprintf(tw, "TestID:\t%d\n", data.TestID)
		fmt.Fprintf(tw, "Name:\t%s\n", data.WebsiteName)
		fmt.Fprintf(tw, "URL:\t%s\n", data.URI)
		fmt.Fprintf(tw, "Type:\t%s\n", data.TestType)
		fmt.Fprintf(tw, "CheckRate:\t%d\n", data.CheckRate)
		fmt.Fprintf(tw, "Status:\t%s\n", data.Status)
		fmt.Fprintf(tw, "Paused:\t%t\n", data.Paused)
		if len(data.NodeLocations) > 0 {
			fmt.Fprintf(tw, "Locations:\t%s\n", strings.Join(data.NodeLocations, ", "))
		}
	case []locations.Location:
		fmt.Fprintln(tw, "Code\tTitle\tCountry\tIP\tStatus")
		for _, l := range data {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ServerCode, l.Title, l.CountryISO, l.IP, l.Status)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s:\t%v\n", k, data[k])
		}
	case nil:
	default:
		fmt.Fprintf(tw, "%v\n", data)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	message := result.Message
	if message == "" {
		message = "done"
	}
	fmt.Fprintf(r.writer, "%s %s\n", r.green("[OK]"), message)
	return nil
}
