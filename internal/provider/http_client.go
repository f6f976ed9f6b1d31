package provider

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/logging"
)

// buildHTTPClient returns the client used for StatusCake requests. Retries on
// 429 and 5xx are only enabled when retryMaxAttempts is positive.
func buildHTTPClient(timeoutSeconds int64, retryMaxAttempts int64) *http.Client {
	timeout := time.Duration(timeoutSeconds) * time.Second
	transport := logging.NewLoggingHTTPTransport(http.DefaultTransport)

	if retryMaxAttempts > 0 {
		rcClient := retryablehttp.NewClient()
		rcClient.HTTPClient = &http.Client{Transport: transport}
		rcClient.RetryMax = int(retryMaxAttempts)
		rcClient.RetryWaitMin = 500 * time.Millisecond
		rcClient.RetryWaitMax = 10 * time.Second
		rcClient.Logger = nil
		httpClient := rcClient.StandardClient()
		httpClient.Timeout = timeout
		return httpClient
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
