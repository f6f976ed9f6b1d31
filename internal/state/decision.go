package state

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Changes records the state of a test before and after a reconcile.
type Changes struct {
	Old interface{}
	New interface{}
}

// Decision is the outcome of reconciling one named test.
type Decision struct {
	Name    string
	// TestID identifies the matched, created or deleted test when known.
	TestID  int64
	Changed bool
	// Pending is set in dry-run mode when a write would have happened.
	Pending bool
	Failed  bool
	Comment string
	Error   string
	Changes Changes
}

// Result is nil for pending decisions, false for failures and true otherwise.
func (d Decision) Result() *bool {
	if d.Pending {
		return nil
	}
	ok := !d.Failed
	return &ok
}

type decisionJSON struct {
	Name    string                 `json:"name"`
	Result  *bool                  `json:"result"`
	Comment string                 `json:"comment"`
	Changes map[string]interface{} `json:"changes"`
	Error   string                 `json:"error,omitempty"`
}

func (d Decision) MarshalJSON() ([]byte, error) {
	changes := map[string]interface{}{}
	if d.Changed {
		changes["old"] = d.Changes.Old
		changes["new"] = d.Changes.New
	}
	return json.Marshal(decisionJSON{
		Name:    d.Name,
		Result:  d.Result(),
		Comment: d.Comment,
		Changes: changes,
		Error:   d.Error,
	})
}

func (d Decision) fail(comment string, err error) Decision {
	d.Failed = true
	d.Changed = false
	d.Pending = false
	d.Comment = comment
	if err != nil {
		d.Error = err.Error()
	}
	return d
}
