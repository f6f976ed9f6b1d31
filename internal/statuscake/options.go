package statuscake

import (
	"github.com/skysqlinc/terraform-provider-statuscake/internal/config"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"net/http"
)

type Option func(*Client)

// WithHTTPClient sends requests through hc instead of the default logging transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCredentials sets credentials that take precedence over the configuration.
func WithCredentials(apiKey string, username string) Option {
	return func(c *Client) {
		c.credentials = Credentials{APIKey: apiKey, Username: username}
	}
}

// WithConfig sets the configuration consulted for missing credentials.
func WithConfig(g config.Getter) Option {
	return func(c *Client) {
		c.config = g
	}
}

func WithSchema(s *params.Schema) Option {
	return func(c *Client) {
		if s != nil {
			c.schema = s
		}
	}
}

// WithLocationsURL overrides the address of the locations listing.
func WithLocationsURL(u string) Option {
	return func(c *Client) {
		c.locationsURL = u
	}
}

type requestOptions struct {
	apiKey   string
	username string
}

// RequestOption tweaks a single request.
type RequestOption func(*requestOptions)

func WithAPIKey(apiKey string) RequestOption {
	return func(o *requestOptions) {
		o.apiKey = apiKey
	}
}

func WithUsername(username string) RequestOption {
	return func(o *requestOptions) {
		o.username = username
	}
}
