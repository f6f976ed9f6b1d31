package provider

import (
	"context"
	"errors"
	"os"

	"github.com/matryer/resync"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/config"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
)

const (
	defaultHTTPTimeoutSeconds = 30
	defaultRetryMaxAttempts   = 0
)

// Ensure statusCakeProvider satisfies various provider interfaces.
var _ provider.Provider = &statusCakeProvider{}

var configureOnce resync.Once

// statusCakeProvider defines the provider implementation.
type statusCakeProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// StatusCakeProviderModel describes the provider data model.
type StatusCakeProviderModel struct {
	BaseURL            types.String `tfsdk:"base_url"`
	APIKey             types.String `tfsdk:"api_key"`
	Username           types.String `tfsdk:"username"`
	HTTPTimeoutSeconds types.Int64  `tfsdk:"http_timeout_seconds"`
	RetryMaxAttempts   types.Int64  `tfsdk:"retry_max_attempts"`
}

func (p *statusCakeProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "statuscake"
	resp.Version = p.version
}

func (p *statusCakeProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The StatusCake terraform provider",
		Attributes: map[string]schema.Attribute{
			"api_key": schema.StringAttribute{
				MarkdownDescription: "StatusCake API key. Defaults to `TF_STATUSCAKE_API_KEY`.",
				Optional:            true,
				Sensitive:           true,
			},
			"username": schema.StringAttribute{
				MarkdownDescription: "StatusCake username. Defaults to `TF_STATUSCAKE_USERNAME`.",
				Optional:            true,
				Sensitive:           true,
			},
			"base_url": schema.StringAttribute{
				MarkdownDescription: "StatusCake API base URL. Defaults to `TF_STATUSCAKE_API_BASE_URL` or " + statuscake.DefaultBaseURL + ".",
				Optional:            true,
			},
			"http_timeout_seconds": schema.Int64Attribute{
				MarkdownDescription: "Timeout of a single HTTP request, in seconds.",
				Optional:            true,
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
			"retry_max_attempts": schema.Int64Attribute{
				MarkdownDescription: "Retry requests failing with 429 or 5xx up to this many times. Disabled by default.",
				Optional:            true,
				Validators: []validator.Int64{
					int64validator.Between(0, 10),
				},
			},
		},
	}
}

// Function to read environment with a default value
func getEnv(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return value
}

func (p *statusCakeProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	baseURL := getEnv("TF_STATUSCAKE_API_BASE_URL", statuscake.DefaultBaseURL)

	var data StatusCakeProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	if data.BaseURL.ValueString() != "" {
		baseURL = data.BaseURL.ValueString()
	}

	timeoutSeconds := int64(defaultHTTPTimeoutSeconds)
	if !data.HTTPTimeoutSeconds.IsNull() {
		timeoutSeconds = data.HTTPTimeoutSeconds.ValueInt64()
	}
	retryMaxAttempts := int64(defaultRetryMaxAttempts)
	if !data.RetryMaxAttempts.IsNull() {
		retryMaxAttempts = data.RetryMaxAttempts.ValueInt64()
	}

	// Configuration data takes precedence over environment variables.
	credentials := config.Chain{
		config.Map{
			config.KeyAPIKey:   data.APIKey.ValueString(),
			config.KeyUsername: data.Username.ValueString(),
		},
		config.Env{
			config.KeyAPIKey:   "TF_STATUSCAKE_API_KEY",
			config.KeyUsername: "TF_STATUSCAKE_USERNAME",
		},
	}

	client := statuscake.New(baseURL,
		statuscake.WithHTTPClient(buildHTTPClient(timeoutSeconds, retryMaxAttempts)),
		statuscake.WithConfig(credentials),
	)

	if _, err := client.Credentials(); err != nil {
		var credErr *statuscake.CredentialsError
		if errors.As(err, &credErr) && credErr.Field == "username" {
			resp.Diagnostics.AddError(
				"Missing StatusCake Username Configuration",
				"While configuring the provider, the username was not found in "+
					"the TF_STATUSCAKE_USERNAME environment variable or provider "+
					"configuration block username attribute.",
			)
		} else {
			resp.Diagnostics.AddError(
				"Missing StatusCake API Key Configuration",
				"While configuring the provider, the API key was not found in "+
					"the TF_STATUSCAKE_API_KEY environment variable or provider "+
					"configuration block api_key attribute.",
			)
		}
		return
	}

	configureOnce.Do(func() {
		_, err := client.GetAllTests(ctx)
		if err != nil {
			if errors.Is(err, statuscake.ErrorUnauthorized) {
				resp.Diagnostics.AddError(
					"Unable to connect to StatusCake",
					"While configuring the provider, the API key or username was not valid.",
				)
				return
			}
			resp.Diagnostics.AddError(
				"Unable to connect to StatusCake",
				"While configuring the provider, the API returns error: "+err.Error(),
			)
		}
	})

	if resp.Diagnostics.HasError() {
		return
	}

	resp.DataSourceData = client
	resp.ResourceData = client
}

func (p *statusCakeProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewTestResource,
	}
}

func (p *statusCakeProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewTestDataSource,
		NewTestsDataSource,
		NewLocationsDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &statusCakeProvider{
			version: version,
		}
	}
}
