package params

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return NewSchema(
		Definition{
			Resource: "widget",
			Fields: []FieldSpec{
				Required("name"),
				RequiredWithDefault("size", 10),
				RequiredWithDefault("color", nil),
				Optional("label"),
				OptionalWithDefault("enabled", true),
				OptionalWithDefault("order", 0),
				OptionalWithDefault("notify", false),
				OptionalWithDefault("link", nil),
			},
		},
		Definition{
			Resource:  "incident",
			Operation: "add",
			Fields: []FieldSpec{
				Required("name"),
				RequiredWithDefault("visible", 1),
			},
		},
		Definition{
			Resource:  "incident",
			Operation: "update",
			Fields: []FieldSpec{
				Optional("name"),
				OptionalWithDefault("visible", 1),
			},
		},
	)
}

func TestValidate(t *testing.T) {
	s := testSchema()

	tests := []struct {
		name      string
		resource  string
		operation string
		supplied  Values
		expected  Values
	}{
		{
			name:     "defaults applied and falsy optional defaults omitted",
			resource: "widget",
			supplied: Values{"name": "w"},
			expected: Values{"name": "w", "size": 10, "color": nil, "enabled": true},
		},
		{
			name:     "supplied values taken verbatim",
			resource: "widget",
			supplied: Values{"name": "w", "size": "big", "label": "", "order": 3, "notify": false},
			expected: Values{"name": "w", "size": "big", "color": nil, "label": "", "enabled": true, "order": 3, "notify": false},
		},
		{
			name:     "undeclared fields are dropped",
			resource: "widget",
			supplied: Values{"name": "w", "unknown": "x", "TestID": 1},
			expected: Values{"name": "w", "size": 10, "color": nil, "enabled": true},
		},
		{
			name:      "operation keyed add",
			resource:  "incident",
			operation: "add",
			supplied:  Values{"name": "outage"},
			expected:  Values{"name": "outage", "visible": 1},
		},
		{
			name:      "operation keyed update with nothing supplied",
			resource:  "incident",
			operation: "update",
			supplied:  Values{},
			expected:  Values{"visible": 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := s.Validate(test.resource, test.operation, test.supplied)
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("unexpected values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_MissingMandatoryField(t *testing.T) {
	s := testSchema()

	got, err := s.Validate("widget", "", Values{"size": 3})
	require.Error(t, err)
	assert.Nil(t, got)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Field)
	assert.Equal(t, "Mandatory params name is missing", err.Error())
	assert.False(t, errors.Is(err, ErrSchemaNotFound))
}

func TestValidate_SchemaNotFound(t *testing.T) {
	s := testSchema()

	_, err := s.Validate("gadget", "", Values{})
	assert.ErrorIs(t, err, ErrSchemaNotFound)

	_, err = s.Validate("incident", "", Values{"name": "x"})
	assert.ErrorIs(t, err, ErrSchemaNotFound)

	_, err = s.Validate("incident", "delete", Values{"name": "x"})
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestValidate_DoesNotMutateInputOrSchema(t *testing.T) {
	s := testSchema()
	supplied := Values{"name": "w", "extra": true}

	got, err := s.Validate("widget", "", supplied)
	require.NoError(t, err)
	got["name"] = "changed"

	assert.Equal(t, Values{"name": "w", "extra": true}, supplied)

	fields, err := s.Fields("widget", "")
	require.NoError(t, err)
	fields[0].Name = "mutated"

	again, err := s.Validate("widget", "", Values{"name": "w"})
	require.NoError(t, err)
	assert.Equal(t, "w", again["name"])
}

func TestValidate_NeverReturnsUndeclaredFields(t *testing.T) {
	s := StatusCake()
	supplied := Values{
		"WebsiteName": "site",
		"WebsiteURL":  "https://site.test",
		"Bogus":       1,
		"api_key":     "secret",
		"Paused":      true,
	}

	for _, op := range []string{OperationCreate, OperationUpdate} {
		in := supplied.Clone()
		in["TestID"] = 42
		got, err := s.Validate(ResourceTest, op, in)
		require.NoError(t, err)
		for k := range got {
			assert.True(t, IsTestField(k), "field %s is not declared", k)
		}
	}
}

func TestStatusCakeSchema_CreateDefaults(t *testing.T) {
	got, err := StatusCake().Validate(ResourceTest, OperationCreate, Values{
		"WebsiteName": "site",
		"WebsiteURL":  "https://site.test",
	})
	require.NoError(t, err)
	assert.Equal(t, Values{
		"WebsiteName": "site",
		"WebsiteURL":  "https://site.test",
		"CheckRate":   DefaultCheckRate,
		"TestType":    DefaultTestType,
	}, got)

	_, err = StatusCake().Validate(ResourceTest, OperationCreate, Values{"WebsiteName": "site"})
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "WebsiteURL", missing.Field)
}

func TestStatusCakeSchema_UpdateRequiresTestID(t *testing.T) {
	_, err := StatusCake().Validate(ResourceTest, OperationUpdate, Values{"Paused": true})
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "TestID", missing.Field)

	got, err := StatusCake().Validate(ResourceTest, OperationUpdate, Values{"TestID": 7, "Paused": true})
	require.NoError(t, err)
	assert.Equal(t, Values{"TestID": 7, "Paused": true}, got)
}

func TestIsFalsy(t *testing.T) {
	var nilSlice []string
	falsy := []interface{}{nil, false, 0, int64(0), 0.0, "", []string{}, map[string]int{}, nilSlice}
	for _, v := range falsy {
		assert.True(t, isFalsy(v), "%#v should be falsy", v)
	}
	truthy := []interface{}{true, 1, -1, 0.5, "x", []string{"a"}, map[string]int{"a": 1}}
	for _, v := range truthy {
		assert.False(t, isFalsy(v), "%#v should not be falsy", v)
	}
}
