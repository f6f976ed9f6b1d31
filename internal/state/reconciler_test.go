package state

import (
	"context"
	"errors"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type fakeAPI struct {
	tests     []uptime.Test
	findErr   error
	addResp   *uptime.UpdateResponse
	addErr    error
	// addLists is listed by FindTest once AddTest has been called.
	addLists  *uptime.Test
	deleteErr error

	added   []params.Values
	deleted []int64
}

func (f *fakeAPI) FindTest(_ context.Context, name string, _ ...statuscake.RequestOption) (*uptime.Test, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var found []uptime.Test
	for _, t := range f.tests {
		if t.WebsiteName == name {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return nil, &statuscake.TestNotFoundError{Name: name}
	case 1:
		return &found[0], nil
	}
	return nil, &statuscake.AmbiguousMatchError{Name: name}
}

func (f *fakeAPI) AddTest(_ context.Context, values params.Values, _ ...statuscake.RequestOption) (*uptime.UpdateResponse, error) {
	f.added = append(f.added, values)
	if f.addLists != nil && f.addErr == nil {
		f.tests = append(f.tests, *f.addLists)
	}
	return f.addResp, f.addErr
}

func (f *fakeAPI) DeleteTest(_ context.Context, testID int64, _ ...statuscake.RequestOption) (*uptime.UpdateResponse, error) {
	f.deleted = append(f.deleted, testID)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &uptime.UpdateResponse{Success: true, TestID: testID, Affected: 1}, nil
}

func TestPresent_CreatesMissingTest(t *testing.T) {
	api := &fakeAPI{addResp: &uptime.UpdateResponse{
		Success:  true,
		Message:  "Test Inserted",
		InsertID: 901,
		Data:     map[string]interface{}{"WebsiteName": "W", "WebsiteURL": "https://w.test"},
	}}

	d := New(api).Present(context.Background(), "W", TestSpec{WebsiteName: "W", WebsiteURL: "https://w.test"})

	require.Len(t, api.added, 1)
	assert.Equal(t, 60, api.added[0]["CheckRate"])
	assert.Equal(t, "HTTP", api.added[0]["TestType"])
	assert.Equal(t, "https://w.test", api.added[0]["WebsiteURL"])

	assert.True(t, d.Changed)
	assert.False(t, d.Pending)
	require.NotNil(t, d.Result())
	assert.True(t, *d.Result())
	assert.Equal(t, "Added test W.", d.Comment)
	assert.Nil(t, d.Changes.Old)
	assert.Equal(t, map[string]interface{}{
		"WebsiteName": "W",
		"WebsiteURL":  "https://w.test",
		"TestID":      int64(901),
	}, d.Changes.New)
}

func TestPresent_DryRun(t *testing.T) {
	api := &fakeAPI{}

	d := New(api, WithDryRun(true)).Present(context.Background(), "W", TestSpec{WebsiteName: "W", WebsiteURL: "https://w.test"})

	assert.Empty(t, api.added)
	assert.True(t, d.Pending)
	assert.False(t, d.Changed)
	assert.Nil(t, d.Result())
	assert.Equal(t, "Statuscake test W set to be added.", d.Comment)
}

func TestPresent_ExistingTestIsNoop(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		api := &fakeAPI{tests: []uptime.Test{{TestID: 5, WebsiteName: "W", WebsiteURL: "https://old.test", CheckRate: 300}}}

		d := New(api, WithDryRun(dryRun)).Present(context.Background(), "state-id", TestSpec{
			WebsiteName: "W",
			WebsiteURL:  "https://new.test",
			CheckRate:   30,
		})

		assert.Empty(t, api.added)
		assert.False(t, d.Changed)
		assert.False(t, d.Pending)
		require.NotNil(t, d.Result())
		assert.True(t, *d.Result())
		assert.Contains(t, d.Comment, "Not updating")
		assert.Equal(t, "state-id", d.Name)
	}
}

func TestPresent_FallsBackToName(t *testing.T) {
	api := &fakeAPI{addResp: &uptime.UpdateResponse{Success: true, InsertID: 3}}

	d := New(api).Present(context.Background(), "by-name", TestSpec{
		WebsiteURL: "https://n.test",
		CheckRate:  120,
		TestType:   "PING",
		Fields:     params.Values{"Paused": true},
	})

	require.Len(t, api.added, 1)
	assert.Equal(t, params.Values{
		"WebsiteName": "by-name",
		"WebsiteURL":  "https://n.test",
		"CheckRate":   int64(120),
		"TestType":    "PING",
		"Paused":      true,
	}, api.added[0])
	assert.Equal(t, int64(3), d.Changes.New.(map[string]interface{})["TestID"])
	assert.Equal(t, true, d.Changes.New.(map[string]interface{})["Paused"])
}

func TestPresent_FieldsSupplyUnsetAttributes(t *testing.T) {
	api := &fakeAPI{addResp: &uptime.UpdateResponse{Success: true, InsertID: 12}}

	d := New(api).Present(context.Background(), "W", TestSpec{
		WebsiteName: "W",
		Fields: params.Values{
			"WebsiteURL": "https://w.test",
			"CheckRate":  int64(300),
			"TestType":   "TCP",
		},
	})

	require.Len(t, api.added, 1)
	assert.Equal(t, "https://w.test", api.added[0]["WebsiteURL"])
	assert.Equal(t, int64(300), api.added[0]["CheckRate"])
	assert.Equal(t, "TCP", api.added[0]["TestType"])
	assert.True(t, d.Changed)
}

func TestPresent_TypedAttributesWinOverFields(t *testing.T) {
	api := &fakeAPI{addResp: &uptime.UpdateResponse{Success: true, InsertID: 12}}

	New(api).Present(context.Background(), "W", TestSpec{
		WebsiteName: "W",
		WebsiteURL:  "https://w.test",
		CheckRate:   120,
		TestType:    "PING",
		Fields:      params.Values{"CheckRate": int64(300), "TestType": "TCP"},
	})

	require.Len(t, api.added, 1)
	assert.Equal(t, int64(120), api.added[0]["CheckRate"])
	assert.Equal(t, "PING", api.added[0]["TestType"])
}

func TestPresent_EmptyAddReply(t *testing.T) {
	spec := TestSpec{WebsiteName: "W", WebsiteURL: "https://w.test"}

	t.Run("id found by name", func(t *testing.T) {
		api := &fakeAPI{addLists: &uptime.Test{TestID: 64, WebsiteName: "W"}}

		d := New(api).Present(context.Background(), "W", spec)

		require.Len(t, api.added, 1)
		assert.True(t, d.Changed)
		assert.False(t, d.Failed)
		assert.Equal(t, int64(64), d.TestID)
		assert.Equal(t, int64(64), d.Changes.New.(map[string]interface{})["TestID"])
		assert.Equal(t, "Added test W.", d.Comment)
	})

	t.Run("id not found", func(t *testing.T) {
		api := &fakeAPI{}

		d := New(api).Present(context.Background(), "W", spec)

		require.Len(t, api.added, 1)
		assert.True(t, d.Changed)
		assert.Zero(t, d.TestID)
		assert.NotContains(t, d.Changes.New.(map[string]interface{}), "TestID")
		assert.Equal(t, "https://w.test", d.Changes.New.(map[string]interface{})["WebsiteURL"])
	})
}

func TestPresent_Failures(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeAPI
		comment string
		errMsg  string
	}{
		{
			name:    "ambiguous name",
			api:     &fakeAPI{tests: []uptime.Test{{TestID: 1, WebsiteName: "W"}, {TestID: 2, WebsiteName: "W"}}},
			comment: "Failed to look up test W.",
			errMsg:  "We have multiple test with this name : W",
		},
		{
			name:    "missing credentials",
			api:     &fakeAPI{findErr: &statuscake.CredentialsError{Field: "api_key"}},
			comment: "Failed to look up test W.",
			errMsg:  "No Statuscake api_key found",
		},
		{
			name:    "add rejected",
			api:     &fakeAPI{addErr: &statuscake.RemoteError{StatusCode: 200, Message: "Invalid URL"}},
			comment: "Failed to add test W.",
			errMsg:  "Invalid URL",
		},
		{
			name:    "transport",
			api:     &fakeAPI{addErr: statuscake.ErrorTransport},
			comment: "Failed to add test W.",
			errMsg:  statuscake.ErrorTransport.Error(),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := New(test.api).Present(context.Background(), "W", TestSpec{WebsiteName: "W", WebsiteURL: "https://w.test"})
			assert.True(t, d.Failed)
			require.NotNil(t, d.Result())
			assert.False(t, *d.Result())
			assert.Equal(t, test.comment, d.Comment)
			assert.Equal(t, test.errMsg, d.Error)
		})
	}
}

func TestAbsent(t *testing.T) {
	existing := uptime.Test{TestID: 8, WebsiteName: "W", WebsiteURL: "https://w.test", TestType: "HTTP", CheckRate: 60}

	t.Run("deletes existing test", func(t *testing.T) {
		api := &fakeAPI{tests: []uptime.Test{existing}}
		d := New(api).Absent(context.Background(), "W", "")

		assert.Equal(t, []int64{8}, api.deleted)
		assert.True(t, d.Changed)
		assert.Equal(t, "Deleted test W.", d.Comment)
		assert.Equal(t, existing.Snapshot(), d.Changes.Old)
		assert.Nil(t, d.Changes.New)
	})

	t.Run("dry run", func(t *testing.T) {
		api := &fakeAPI{tests: []uptime.Test{existing}}
		d := New(api, WithDryRun(true)).Absent(context.Background(), "W", "")

		assert.Empty(t, api.deleted)
		assert.Nil(t, d.Result())
		assert.Equal(t, "Statuscake test W set to be deleted.", d.Comment)
	})

	t.Run("already absent", func(t *testing.T) {
		api := &fakeAPI{}
		d := New(api).Absent(context.Background(), "state-id", "W")

		assert.Empty(t, api.deleted)
		assert.False(t, d.Changed)
		assert.True(t, *d.Result())
		assert.Equal(t, "Statuscake test W does not exist.", d.Comment)
	})

	t.Run("delete fails", func(t *testing.T) {
		api := &fakeAPI{tests: []uptime.Test{existing}, deleteErr: statuscake.ErrorUnauthorized}
		d := New(api).Absent(context.Background(), "W", "")

		assert.True(t, d.Failed)
		assert.Equal(t, "Failed to delete test W.", d.Comment)
		assert.True(t, errors.Is(api.deleteErr, statuscake.ErrorUnauthorized))
		assert.Equal(t, "unauthorized", d.Error)
	})
}
