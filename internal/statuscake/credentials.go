package statuscake

import "github.com/skysqlinc/terraform-provider-statuscake/internal/config"

// Credentials authenticate a request against the StatusCake API.
type Credentials struct {
	APIKey   string
	Username string
}

// Credentials resolves the credentials a request would be sent with. Per
// request options win over client credentials, which win over the
// configuration. Nothing is cached between calls.
func (c *Client) Credentials(opts ...RequestOption) (Credentials, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	apiKey := firstNonEmpty(ro.apiKey, c.credentials.APIKey)
	if apiKey == "" {
		apiKey, _ = config.Lookup(c.config, config.KeyAPIKey, config.KeyAPIKeyColon)
	}
	if apiKey == "" {
		return Credentials{}, &CredentialsError{Field: "api_key"}
	}

	username := firstNonEmpty(ro.username, c.credentials.Username)
	if username == "" {
		username, _ = config.Lookup(c.config, config.KeyUsername, config.KeyUsernameColon)
	}
	if username == "" {
		return Credentials{}, &CredentialsError{Field: "username"}
	}

	return Credentials{APIKey: apiKey, Username: username}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
