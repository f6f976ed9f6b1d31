package uptime

// TestDetails is the Tests/Details representation of a single test.
type TestDetails struct {
	TestID        int64    `json:"TestID"`
	TestType      string   `json:"TestType"`
	Paused        bool     `json:"Paused"`
	WebsiteName   string   `json:"WebsiteName"`
	URI           string   `json:"URI"`
	ContactID     int64    `json:"ContactID,omitempty"`
	Status        string   `json:"Status"`
	Uptime        float64  `json:"Uptime"`
	CustomHeader  string   `json:"CustomHeader,omitempty"`
	UserAgent     string   `json:"UserAgent,omitempty"`
	CheckRate     int64    `json:"CheckRate"`
	Timeout       int64    `json:"Timeout"`
	LogoImage     string   `json:"LogoImage,omitempty"`
	Confirmation  int64    `json:"Confirmation"`
	WebsiteHost   string   `json:"WebsiteHost,omitempty"`
	NodeLocations []string `json:"NodeLocations,omitempty"`
	FindString    string   `json:"FindString,omitempty"`
	DoNotFind     bool     `json:"DoNotFind"`
	LastTested    string   `json:"LastTested,omitempty"`
	Port          int64    `json:"Port"`
	TriggerRate   int64    `json:"TriggerRate"`
	StatusCodes   []string `json:"StatusCodes,omitempty"`
	Tags          []string `json:"Tags,omitempty"`
}
