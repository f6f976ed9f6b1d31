// Package manifest reads declarative StatusCake test files written in HCL:
//
//	test "homepage" {
//	  website_url = "https://example.com"
//	  check_rate  = 60
//	  fields = {
//	    NodeLocations = ["UKINT", "USDAL"]
//	  }
//	}
//
//	test "legacy" {
//	  ensure = "absent"
//	}
package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	EnsurePresent = "present"
	EnsureAbsent  = "absent"
)

// Entry is one test block.
type Entry struct {
	Name   string
	Ensure string
	Spec   state.TestSpec
	Range  hcl.Range
}

type Manifest struct {
	Entries []Entry
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "test", LabelNames: []string{"name"}}},
}

var testSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "ensure"},
		{Name: "website_name"},
		{Name: "website_url"},
		{Name: "check_rate"},
		{Name: "test_type"},
		{Name: "fields"},
	},
}

// ParseFile reads and decodes the manifest at path. Files ending in .json
// are read with the HCL JSON syntax.
func ParseFile(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(path, src)
}

func Parse(filename string, src []byte) (*Manifest, error) {
	parser := hclparse.NewParser()

	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.HasSuffix(filename, ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": environment()},
	}

	m := &Manifest{}
	seen := map[string]hcl.Range{}
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if prev, ok := seen[name]; ok {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate test block",
				Detail:   fmt.Sprintf("A test named %q was already declared at %s.", name, prev),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		seen[name] = block.DefRange

		entry, entryDiags := decodeEntry(block, evalCtx)
		diags = append(diags, entryDiags...)
		if entryDiags.HasErrors() {
			continue
		}
		m.Entries = append(m.Entries, entry)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return m, nil
}

func decodeEntry(block *hcl.Block, evalCtx *hcl.EvalContext) (Entry, hcl.Diagnostics) {
	entry := Entry{Name: block.Labels[0], Ensure: EnsurePresent, Range: block.DefRange}

	content, diags := block.Body.Content(testSchema)
	if diags.HasErrors() {
		return entry, diags
	}

	decodeString := func(name string, target *string) {
		attr, ok := content.Attributes[name]
		if !ok {
			return
		}
		val, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() || val.IsNull() {
			return
		}
		if err := gocty.FromCtyValue(val, target); err != nil {
			diags = diags.Append(attributeError(attr, err))
		}
	}

	decodeString("ensure", &entry.Ensure)
	decodeString("website_name", &entry.Spec.WebsiteName)
	decodeString("website_url", &entry.Spec.WebsiteURL)
	decodeString("test_type", &entry.Spec.TestType)

	if attr, ok := content.Attributes["check_rate"]; ok {
		val, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if !valDiags.HasErrors() && !val.IsNull() {
			if err := gocty.FromCtyValue(val, &entry.Spec.CheckRate); err != nil {
				diags = diags.Append(attributeError(attr, err))
			}
		}
	}

	if attr, ok := content.Attributes["fields"]; ok {
		val, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if !valDiags.HasErrors() && !val.IsNull() {
			fields, err := decodeFields(val)
			if err != nil {
				diags = diags.Append(attributeError(attr, err))
			}
			entry.Spec.Fields = fields
		}
	}

	for _, af := range attributeFields {
		attr, ok := content.Attributes[af.attribute]
		if !ok {
			continue
		}
		if _, ok := entry.Spec.Fields[af.field]; ok {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Conflicting test field",
				Detail:   fmt.Sprintf("Test %q sets both %s and fields.%s, only one is allowed.", entry.Name, af.attribute, af.field),
				Subject:  attr.Range.Ptr(),
			})
		}
	}

	switch entry.Ensure {
	case EnsurePresent:
		if url, _ := entry.Spec.Fields["WebsiteURL"].(string); entry.Spec.WebsiteURL == "" && url == "" {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing website_url",
				Detail:   fmt.Sprintf("Test %q must set website_url to be present.", entry.Name),
				Subject:  block.DefRange.Ptr(),
			})
		}
	case EnsureAbsent:
	default:
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid ensure value",
			Detail:   fmt.Sprintf("ensure must be %q or %q, got %q.", EnsurePresent, EnsureAbsent, entry.Ensure),
			Subject:  block.DefRange.Ptr(),
		})
	}

	return entry, diags
}

// attributeFields pairs the block attributes with the test field they set.
var attributeFields = []struct {
	attribute string
	field     string
}{
	{"website_name", "WebsiteName"},
	{"website_url", "WebsiteURL"},
	{"test_type", "TestType"},
	{"check_rate", "CheckRate"},
}

func decodeFields(val cty.Value) (params.Values, error) {
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("fields must be an object, got %s", val.Type().FriendlyName())
	}
	converted, err := ConvertValue(val)
	if err != nil {
		return nil, err
	}
	fields := params.Values{}
	for k, v := range converted.(map[string]interface{}) {
		if !params.IsTestField(k) {
			return nil, fmt.Errorf("unknown test field %q", k)
		}
		fields[k] = v
	}
	return fields, nil
}

func attributeError(attr *hcl.Attribute, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Invalid value for %s", attr.Name),
		Detail:   err.Error(),
		Subject:  attr.Expr.Range().Ptr(),
	}
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// Apply reconciles every entry in order and returns one decision per entry.
func (m *Manifest) Apply(ctx context.Context, r *state.Reconciler) []state.Decision {
	decisions := make([]state.Decision, 0, len(m.Entries))
	for _, entry := range m.Entries {
		tflog.Debug(ctx, "Reconciling manifest entry", map[string]interface{}{
			"name":   entry.Name,
			"ensure": entry.Ensure,
			"range":  entry.Range.String(),
		})
		switch entry.Ensure {
		case EnsureAbsent:
			decisions = append(decisions, r.Absent(ctx, entry.Name, entry.Spec.WebsiteName))
		default:
			decisions = append(decisions, r.Present(ctx, entry.Name, entry.Spec))
		}
	}
	return decisions
}
