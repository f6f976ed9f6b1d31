package locations

// Location is a monitoring server StatusCake runs tests from.
type Location struct {
	GUID       string `json:"guid"`
	ServerCode string `json:"servercode"`
	Title      string `json:"title"`
	IP         string `json:"ip"`
	IPv6       string `json:"ipv6,omitempty"`
	CountryISO string `json:"countryiso"`
	Status     string `json:"status"`
}
