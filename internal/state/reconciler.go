package state

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
)

// Defaults applied by Present when the TestSpec leaves them unset.
const (
	DefaultCheckRate = 60
	DefaultTestType  = "HTTP"
)

// API is the subset of the StatusCake client the reconciler needs.
type API interface {
	FindTest(ctx context.Context, name string, options ...statuscake.RequestOption) (*uptime.Test, error)
	AddTest(ctx context.Context, values params.Values, options ...statuscake.RequestOption) (*uptime.UpdateResponse, error)
	DeleteTest(ctx context.Context, testID int64, options ...statuscake.RequestOption) (*uptime.UpdateResponse, error)
}

// TestSpec describes the desired test.
type TestSpec struct {
	WebsiteName string
	WebsiteURL  string
	CheckRate   int64
	TestType    string
	// Fields holds any other Tests/Update field.
	Fields params.Values
}

// Reconciler brings StatusCake tests to a desired state. It holds no locks:
// two concurrent Present calls for the same name may both create a test.
type Reconciler struct {
	api     API
	dryRun  bool
	options []statuscake.RequestOption
}

type Option func(*Reconciler)

// WithDryRun makes the reconciler report the writes it would do instead of doing them.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// WithRequestOptions passes options to every API call.
func WithRequestOptions(options ...statuscake.RequestOption) Option {
	return func(r *Reconciler) {
		r.options = append(r.options, options...)
	}
}

func New(api API, opts ...Option) *Reconciler {
	r := &Reconciler{api: api}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) DryRun() bool {
	return r.dryRun
}

// Present ensures a test named spec.WebsiteName (or name) exists. Existing
// tests are never updated.
func (r *Reconciler) Present(ctx context.Context, name string, spec TestSpec) Decision {
	values := spec.values(name)
	websiteName, _ := values["WebsiteName"].(string)
	decision := Decision{Name: name}

	ctx = tflog.SetField(ctx, "website_name", websiteName)

	existing, err := r.api.FindTest(ctx, websiteName, r.options...)
	switch {
	case err == nil:
		tflog.Debug(ctx, "Statuscake test already exists", map[string]interface{}{"test_id": existing.TestID})
		decision.TestID = existing.TestID
		decision.Comment = fmt.Sprintf("Statuscake test %s already exists (TestID %d). Not updating because existing tests cannot be compared.", websiteName, existing.TestID)
		return decision
	case errors.Is(err, statuscake.ErrorTestNotFound):
	default:
		tflog.Error(ctx, "Unable to look up Statuscake test", map[string]interface{}{"error": err.Error()})
		return decision.fail(fmt.Sprintf("Failed to look up test %s.", websiteName), err)
	}

	if r.dryRun {
		decision.Pending = true
		decision.Comment = fmt.Sprintf("Statuscake test %s set to be added.", websiteName)
		return decision
	}

	added, err := r.api.AddTest(ctx, values, r.options...)
	if err != nil {
		tflog.Error(ctx, "Unable to add Statuscake test", map[string]interface{}{"error": err.Error()})
		return decision.fail(fmt.Sprintf("Failed to add test %s.", websiteName), err)
	}

	created := createdData(values, added)
	if added != nil {
		decision.TestID = added.ID()
	}
	if decision.TestID == 0 {
		// An empty reply carries no id: look the new test up by name.
		if found, err := r.api.FindTest(ctx, websiteName, r.options...); err == nil {
			decision.TestID = found.TestID
			created["TestID"] = found.TestID
		} else {
			tflog.Warn(ctx, "Unable to find the id of the added Statuscake test", map[string]interface{}{"error": err.Error()})
		}
	}
	tflog.Info(ctx, "Added Statuscake test", map[string]interface{}{"test_id": decision.TestID})

	decision.Changed = true
	decision.Comment = fmt.Sprintf("Added test %s.", websiteName)
	decision.Changes = Changes{Old: nil, New: created}
	return decision
}

// Absent ensures no test named websiteName (or name) exists.
func (r *Reconciler) Absent(ctx context.Context, name string, websiteName string) Decision {
	if websiteName == "" {
		websiteName = name
	}
	decision := Decision{Name: name}

	ctx = tflog.SetField(ctx, "website_name", websiteName)

	existing, err := r.api.FindTest(ctx, websiteName, r.options...)
	switch {
	case err == nil:
	case errors.Is(err, statuscake.ErrorTestNotFound):
		decision.Comment = fmt.Sprintf("Statuscake test %s does not exist.", websiteName)
		return decision
	default:
		tflog.Error(ctx, "Unable to look up Statuscake test", map[string]interface{}{"error": err.Error()})
		return decision.fail(fmt.Sprintf("Failed to look up test %s.", websiteName), err)
	}

	decision.TestID = existing.TestID
	if r.dryRun {
		decision.Pending = true
		decision.Comment = fmt.Sprintf("Statuscake test %s set to be deleted.", websiteName)
		return decision
	}

	if _, err := r.api.DeleteTest(ctx, existing.TestID, r.options...); err != nil {
		tflog.Error(ctx, "Unable to delete Statuscake test", map[string]interface{}{"error": err.Error(), "test_id": existing.TestID})
		return decision.fail(fmt.Sprintf("Failed to delete test %s.", websiteName), err)
	}

	tflog.Info(ctx, "Deleted Statuscake test", map[string]interface{}{"test_id": existing.TestID})

	decision.Changed = true
	decision.Comment = fmt.Sprintf("Deleted test %s.", websiteName)
	decision.Changes = Changes{Old: existing.Snapshot(), New: nil}
	return decision
}

// values builds the Tests/Update form of spec. The typed fields win over the
// same keys in Fields, defaults apply only when both are unset.
func (spec TestSpec) values(name string) params.Values {
	values := spec.Fields.Clone()

	set := func(field string, value interface{}, isZero bool, fallback interface{}) {
		switch {
		case !isZero:
			values[field] = value
		case values[field] == nil || values[field] == "":
			values[field] = fallback
		}
	}
	set("WebsiteName", spec.WebsiteName, spec.WebsiteName == "", name)
	set("WebsiteURL", spec.WebsiteURL, spec.WebsiteURL == "", "")
	set("CheckRate", spec.CheckRate, spec.CheckRate == 0, DefaultCheckRate)
	set("TestType", spec.TestType, spec.TestType == "", DefaultTestType)
	return values
}

func createdData(values params.Values, added *uptime.UpdateResponse) map[string]interface{} {
	created := map[string]interface{}{}
	if added != nil {
		if data, ok := added.Data.(map[string]interface{}); ok {
			for k, v := range data {
				created[k] = v
			}
		}
	}
	if len(created) == 0 {
		for k, v := range values {
			created[k] = v
		}
	}
	if added != nil && added.ID() != 0 {
		created["TestID"] = added.ID()
	}
	return created
}
