package statuscake

import (
	"context"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/logging"
	jsoniter "github.com/json-iterator/go"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/config"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/locations"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/uptime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const DefaultBaseURL = config.DefaultBaseURL

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	HTTPClient *resty.Client

	httpClient   *http.Client
	locationsURL string
	credentials  Credentials
	config       config.Getter
	schema       *params.Schema
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: logging.NewLoggingHTTPTransport(http.DefaultTransport)},
		schema:     params.StatusCake(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	clientName, _ := os.Executable()

	c.HTTPClient = resty.NewWithClient(c.httpClient).
		SetHeader("User-Agent", filepath.Base(clientName)).
		SetBaseURL(baseURL)

	return c
}

func (c *Client) GetLocations(ctx context.Context) ([]locations.Location, error) {
	path := c.locationsURL
	if path == "" {
		path = "/Locations/json"
	}

	request, err := c.newRequest(ctx, false)
	if err != nil {
		return nil, err
	}
	resp, err := request.Get(path)
	if err != nil {
		return nil, transportError(ctx, request, err)
	}

	byKey := map[string]locations.Location{}
	if err := handleGetResult(ctx, resp, &byKey); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]locations.Location, 0, len(keys))
	for _, k := range keys {
		result = append(result, byKey[k])
	}
	return result, nil
}

func (c *Client) GetAllTests(ctx context.Context, options ...RequestOption) ([]uptime.Test, error) {
	request, err := c.newRequest(ctx, true, options...)
	if err != nil {
		return nil, err
	}
	resp, err := request.Get("/Tests/")
	if err != nil {
		return nil, transportError(ctx, request, err)
	}

	var result []uptime.Test
	if err := handleGetResult(ctx, resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetTest(ctx context.Context, testID int64, options ...RequestOption) (*uptime.TestDetails, error) {
	request, err := c.newRequest(ctx, true, options...)
	if err != nil {
		return nil, err
	}
	resp, err := request.
		SetQueryParam("TestID", strconv.FormatInt(testID, 10)).
		Get("/Tests/Details")
	if err != nil {
		return nil, transportError(ctx, request, err)
	}

	result := &uptime.TestDetails{}
	if err := handleGetResult(ctx, resp, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FindTest returns the only test named name.
func (c *Client) FindTest(ctx context.Context, name string, options ...RequestOption) (*uptime.Test, error) {
	if name == "" {
		return nil, ErrorEmptyName
	}

	tests, err := c.GetAllTests(ctx, options...)
	if err != nil {
		return nil, err
	}

	var found []uptime.Test
	for _, t := range tests {
		if t.WebsiteName == name {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 0:
		return nil, &TestNotFoundError{Name: name}
	case 1:
		return &found[0], nil
	default:
		ids := make([]int64, 0, len(found))
		for _, t := range found {
			ids = append(ids, t.TestID)
		}
		return nil, &AmbiguousMatchError{Name: name, Matches: ids}
	}
}

// SearchTest returns the id of the only test named name.
func (c *Client) SearchTest(ctx context.Context, name string, options ...RequestOption) (int64, error) {
	t, err := c.FindTest(ctx, name, options...)
	if err != nil {
		return 0, err
	}
	return t.TestID, nil
}

func (c *Client) AddTest(ctx context.Context, values params.Values, options ...RequestOption) (*uptime.UpdateResponse, error) {
	args, err := c.schema.Validate(params.ResourceTest, params.OperationCreate, values)
	if err != nil {
		return nil, err
	}
	return c.putTest(ctx, args, options...)
}

func (c *Client) UpdateTest(ctx context.Context, testID int64, values params.Values, options ...RequestOption) (*uptime.UpdateResponse, error) {
	values = values.Clone()
	values["TestID"] = testID

	args, err := c.schema.Validate(params.ResourceTest, params.OperationUpdate, values)
	if err != nil {
		return nil, err
	}
	return c.putTest(ctx, args, options...)
}

func (c *Client) DeleteTest(ctx context.Context, testID int64, options ...RequestOption) (*uptime.UpdateResponse, error) {
	request, err := c.newRequest(ctx, true, options...)
	if err != nil {
		return nil, err
	}
	resp, err := request.
		SetQueryParam("TestID", strconv.FormatInt(testID, 10)).
		Delete("/Tests/Details/")
	if err != nil {
		return nil, transportError(ctx, request, err)
	}
	return handleGenericResult(ctx, resp)
}

func (c *Client) putTest(ctx context.Context, args params.Values, options ...RequestOption) (*uptime.UpdateResponse, error) {
	request, err := c.newRequest(ctx, true, options...)
	if err != nil {
		return nil, err
	}
	resp, err := request.
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormDataFromValues(args.Form()).
		Put("/Tests/Update")
	if err != nil {
		return nil, transportError(ctx, request, err)
	}
	return handleGenericResult(ctx, resp)
}

func (c *Client) newRequest(ctx context.Context, auth bool, options ...RequestOption) (*resty.Request, error) {
	request := c.HTTPClient.R().
		SetHeader("Accept", "application/json").
		SetContext(ctx)
	if !auth {
		return request, nil
	}

	credentials, err := c.Credentials(options...)
	if err != nil {
		return nil, err
	}
	return request.
		SetHeader("API", credentials.APIKey).
		SetHeader("Username", credentials.Username), nil
}

func handleGetResult(ctx context.Context, resp *resty.Response, result interface{}) error {
	if resp.StatusCode() != http.StatusOK {
		return handleError(ctx, resp)
	}

	var body interface{}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decodeError(ctx, resp, err)
	}
	if m, ok := body.(map[string]interface{}); ok {
		if _, failed := m["ErrNo"]; failed {
			errResp := &ErrorResponse{}
			_ = json.Unmarshal(resp.Body(), errResp)
			return &RemoteError{StatusCode: resp.StatusCode(), Message: errResp.Message}
		}
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return decodeError(ctx, resp, err)
	}
	return nil
}

func handleGenericResult(ctx context.Context, resp *resty.Response) (*uptime.UpdateResponse, error) {
	switch resp.StatusCode() {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, handleError(ctx, resp)
	}

	result := &uptime.UpdateResponse{}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return nil, decodeError(ctx, resp, err)
	}
	if err := json.Unmarshal(resp.Body(), &result.Raw); err != nil {
		return nil, decodeError(ctx, resp, err)
	}
	if !result.Success {
		return nil, &RemoteError{StatusCode: resp.StatusCode(), Message: result.Message}
	}
	return result, nil
}

func handleError(ctx context.Context, resp *resty.Response) error {
	logResponse(ctx, "StatusCake API returned an error status", resp)

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return ErrorTestNotFound
	case http.StatusUnauthorized:
		return ErrorUnauthorized
	}

	remote := &RemoteError{StatusCode: resp.StatusCode()}
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		for _, key := range []string{"Message", "Error"} {
			if s, ok := body[key].(string); ok && s != "" {
				remote.Message = s
				break
			}
		}
	}
	return remote
}

func decodeError(ctx context.Context, resp *resty.Response, err error) error {
	logResponse(ctx, "Unable to decode StatusCake API response", resp, "error", err.Error())
	return ErrorTransport
}

func transportError(ctx context.Context, request *resty.Request, err error) error {
	tflog.Error(ctx, "StatusCake API request failed", map[string]interface{}{
		"method": request.Method,
		"url":    request.URL,
		"params": request.QueryParam.Encode(),
		"body":   request.FormData.Encode(),
		"error":  err.Error(),
	})
	return ErrorTransport
}

func logResponse(ctx context.Context, msg string, resp *resty.Response, extra ...string) {
	fields := map[string]interface{}{
		"status": resp.StatusCode(),
		"raw":    resp.String(),
	}
	if resp.Request != nil {
		fields["method"] = resp.Request.Method
		fields["url"] = resp.Request.URL
		fields["params"] = resp.Request.QueryParam.Encode()
		fields["body"] = resp.Request.FormData.Encode()
	}
	for i := 0; i+1 < len(extra); i += 2 {
		fields[extra[i]] = extra[i+1]
	}
	tflog.Debug(ctx, msg, fields)
}
