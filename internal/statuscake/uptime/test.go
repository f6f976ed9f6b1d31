package uptime

// Test is an entry of the Tests/ listing.
type Test struct {
	TestID       int64    `json:"TestID"`
	Paused       bool     `json:"Paused"`
	TestType     string   `json:"TestType"`
	WebsiteName  string   `json:"WebsiteName"`
	WebsiteURL   string   `json:"WebsiteURL"`
	ContactGroup []string `json:"ContactGroup,omitempty"`
	ContactID    int64    `json:"ContactID,omitempty"`
	Status       string   `json:"Status"`
	Uptime       float64  `json:"Uptime"`
	CheckRate    int64    `json:"CheckRate"`
	Public       int64    `json:"Public"`
	TestTags     []string `json:"TestTags,omitempty"`
}

// Snapshot returns the fields that identify t in reconcile decisions.
func (t Test) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"TestID":      t.TestID,
		"WebsiteName": t.WebsiteName,
		"WebsiteURL":  t.WebsiteURL,
		"TestType":    t.TestType,
		"CheckRate":   t.CheckRate,
		"Paused":      t.Paused,
	}
}
