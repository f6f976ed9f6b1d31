package manifest

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sample = `
test "homepage" {
  website_name = "Homepage"
  website_url  = "https://${env.STATUSCAKE_MANIFEST_DOMAIN}/"
  check_rate   = 120
  fields = {
    Paused        = true
    NodeLocations = ["UKINT", "USDAL"]
    Timeout       = 30
  }
}

test "legacy" {
  ensure = "absent"
}
`

func TestParse(t *testing.T) {
	t.Setenv("STATUSCAKE_MANIFEST_DOMAIN", "example.test")

	m, err := Parse("tests.hcl", []byte(sample))
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	home := m.Entries[0]
	assert.Equal(t, "homepage", home.Name)
	assert.Equal(t, EnsurePresent, home.Ensure)
	expected := state.TestSpec{
		WebsiteName: "Homepage",
		WebsiteURL:  "https://example.test/",
		CheckRate:   120,
		Fields: params.Values{
			"Paused":        true,
			"NodeLocations": []interface{}{"UKINT", "USDAL"},
			"Timeout":       int64(30),
		},
	}
	if diff := cmp.Diff(expected, home.Spec); diff != "" {
		t.Errorf("unexpected spec (-want +got):\n%s", diff)
	}

	legacy := m.Entries[1]
	assert.Equal(t, EnsureAbsent, legacy.Ensure)
	assert.Empty(t, legacy.Spec.WebsiteURL)
}

func TestParseFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.hcl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"test": {"api": {"website_url": "https://api.test", "test_type": "PING"}}}`), 0o600))

	m, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "api", m.Entries[0].Name)
	assert.Equal(t, "PING", m.Entries[0].Spec.TestType)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			name:    "syntax",
			src:     `test "x" {`,
			message: "Unclosed configuration block",
		},
		{
			name:    "unknown attribute",
			src:     `test "x" { website_url = "https://x.test" color = "red" }`,
			message: "Unsupported argument",
		},
		{
			name:    "missing url",
			src:     `test "x" { website_name = "x" }`,
			message: "Missing website_url",
		},
		{
			name:    "invalid ensure",
			src:     `test "x" { ensure = "maybe" }`,
			message: "Invalid ensure value",
		},
		{
			name:    "unknown field",
			src:     `test "x" { website_url = "https://x.test" fields = { Colour = "red" } }`,
			message: `unknown test field "Colour"`,
		},
		{
			name: "duplicate",
			src: `
test "x" { ensure = "absent" }
test "x" { ensure = "absent" }
`,
			message: "Duplicate test block",
		},
		{
			name:    "bad check rate",
			src:     `test "x" { website_url = "https://x.test" check_rate = "often" }`,
			message: "Invalid value for check_rate",
		},
		{
			name: "attribute and field both set",
			src: `
test "x" {
  website_url = "https://x.test"
  check_rate  = 60
  fields      = { CheckRate = 300 }
}
`,
			message: "Conflicting test field",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := Parse("tests.hcl", []byte(test.src))
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Contains(t, err.Error(), test.message)
		})
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name     string
		in       cty.Value
		expected interface{}
	}{
		{name: "null", in: cty.NullVal(cty.String), expected: nil},
		{name: "whole number", in: cty.NumberIntVal(42), expected: int64(42)},
		{name: "fraction", in: cty.NumberFloatVal(2.5), expected: 2.5},
		{name: "set", in: cty.SetVal([]cty.Value{cty.StringVal("a")}), expected: []interface{}{"a"}},
		{
			name:     "nested object",
			in:       cty.ObjectVal(map[string]cty.Value{"a": cty.ListVal([]cty.Value{cty.True})}),
			expected: map[string]interface{}{"a": []interface{}{true}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ConvertValue(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}

	_, err := ConvertValue(cty.UnknownVal(cty.String))
	assert.Error(t, err)

	native := 1
	_, err = ConvertValue(cty.CapsuleVal(cty.Capsule("native", reflect.TypeOf(native)), &native))
	assert.EqualError(t, err, "unsupported value type native")
}

type recordingAPI struct {
	added   []params.Values
	deleted []int64
	tests   []uptime.Test
}

func (a *recordingAPI) FindTest(_ context.Context, name string, _ ...statuscake.RequestOption) (*uptime.Test, error) {
	for i := range a.tests {
		if a.tests[i].WebsiteName == name {
			return &a.tests[i], nil
		}
	}
	return nil, &statuscake.TestNotFoundError{Name: name}
}

func (a *recordingAPI) AddTest(_ context.Context, values params.Values, _ ...statuscake.RequestOption) (*uptime.UpdateResponse, error) {
	a.added = append(a.added, values)
	return &uptime.UpdateResponse{Success: true, InsertID: 1}, nil
}

func (a *recordingAPI) DeleteTest(_ context.Context, id int64, _ ...statuscake.RequestOption) (*uptime.UpdateResponse, error) {
	a.deleted = append(a.deleted, id)
	return &uptime.UpdateResponse{Success: true}, nil
}

func TestManifestApply(t *testing.T) {
	t.Setenv("STATUSCAKE_MANIFEST_DOMAIN", "example.test")
	m, err := Parse("tests.hcl", []byte(sample))
	require.NoError(t, err)

	api := &recordingAPI{tests: []uptime.Test{{TestID: 77, WebsiteName: "legacy"}}}
	decisions := m.Apply(context.Background(), state.New(api))

	require.Len(t, decisions, 2)
	assert.Equal(t, "Added test Homepage.", decisions[0].Comment)
	assert.Equal(t, "Deleted test legacy.", decisions[1].Comment)
	require.Len(t, api.added, 1)
	assert.Equal(t, int64(120), api.added[0]["CheckRate"])
	assert.Equal(t, []int64{77}, api.deleted)
}

func TestManifestApply_FieldsSetTestAttributes(t *testing.T) {
	m, err := Parse("tests.hcl", []byte(`
test "api" {
  fields = {
    WebsiteURL = "https://api.test"
    CheckRate  = 300
    TestType   = "TCP"
  }
}
`))
	require.NoError(t, err)

	api := &recordingAPI{}
	decisions := m.Apply(context.Background(), state.New(api))

	require.Len(t, decisions, 1)
	require.Len(t, api.added, 1)
	assert.Equal(t, "api", api.added[0]["WebsiteName"])
	assert.Equal(t, "https://api.test", api.added[0]["WebsiteURL"])
	assert.Equal(t, int64(300), api.added[0]["CheckRate"])
	assert.Equal(t, "TCP", api.added[0]["TestType"])
}
