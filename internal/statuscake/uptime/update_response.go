package uptime

// UpdateResponse is the envelope returned by write operations.
type UpdateResponse struct {
	Success  bool        `json:"Success"`
	Message  string      `json:"Message"`
	Issues   interface{} `json:"Issues,omitempty"`
	Data     interface{} `json:"Data,omitempty"`
	InsertID int64       `json:"InsertID,omitempty"`
	TestID   int64       `json:"TestID,omitempty"`
	Affected int64       `json:"Affected,omitempty"`

	// Raw holds the whole decoded body.
	Raw map[string]interface{} `json:"-"`
}

// ID returns the identifier of the test the response refers to.
func (r *UpdateResponse) ID() int64 {
	if r.InsertID != 0 {
		return r.InsertID
	}
	return r.TestID
}
