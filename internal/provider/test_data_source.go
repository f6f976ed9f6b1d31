package provider

import (
	"context"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
)

// Ensure provider defined types fully satisfy framework interfaces
var _ datasource.DataSource = &TestDataSource{}

func NewTestDataSource() datasource.DataSource {
	return &TestDataSource{}
}

// TestDataSource looks up a single uptime test by id or by name.
type TestDataSource struct {
	client *statuscake.Client
}

type TestDataSourceModel struct {
	ID            types.String  `tfsdk:"id"`
	Name          types.String  `tfsdk:"name"`
	WebsiteURL    types.String  `tfsdk:"website_url"`
	TestType      types.String  `tfsdk:"test_type"`
	CheckRate     types.Int64   `tfsdk:"check_rate"`
	Paused        types.Bool    `tfsdk:"paused"`
	Status        types.String  `tfsdk:"status"`
	Uptime        types.Float64 `tfsdk:"uptime"`
	Timeout       types.Int64   `tfsdk:"timeout"`
	Port          types.Int64   `tfsdk:"port"`
	Confirmation  types.Int64   `tfsdk:"confirmation"`
	TriggerRate   types.Int64   `tfsdk:"trigger_rate"`
	WebsiteHost   types.String  `tfsdk:"website_host"`
	FindString    types.String  `tfsdk:"find_string"`
	DoNotFind     types.Bool    `tfsdk:"do_not_find"`
	LastTested    types.String  `tfsdk:"last_tested"`
	NodeLocations types.List    `tfsdk:"node_locations"`
	StatusCodes   types.List    `tfsdk:"status_codes"`
	Tags          types.List    `tfsdk:"tags"`
}

func (d *TestDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_test"
}

func (d *TestDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Details of a StatusCake uptime test",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Optional:    true,
				Computed:    true,
				Description: "The TestID of the test",
				Validators: []validator.String{
					stringvalidator.ExactlyOneOf(path.MatchRoot("id"), path.MatchRoot("name")),
				},
			},
			"name": schema.StringAttribute{
				Optional:    true,
				Computed:    true,
				Description: "The name of the test. The lookup fails when several tests share this name",
			},
			"website_url": schema.StringAttribute{
				Computed:    true,
				Description: "The URL or IP address that is checked",
			},
			"test_type": schema.StringAttribute{
				Computed:    true,
				Description: "The type of the test",
			},
			"check_rate": schema.Int64Attribute{
				Computed:    true,
				Description: "Seconds between checks",
			},
			"paused": schema.BoolAttribute{
				Computed:    true,
				Description: "Whether the test is paused",
			},
			"status": schema.StringAttribute{
				Computed:    true,
				Description: "The current status of the test",
			},
			"uptime": schema.Float64Attribute{
				Computed:    true,
				Description: "The uptime percentage of the test",
			},
			"timeout": schema.Int64Attribute{
				Computed: true,
			},
			"port": schema.Int64Attribute{
				Computed: true,
			},
			"confirmation": schema.Int64Attribute{
				Computed: true,
			},
			"trigger_rate": schema.Int64Attribute{
				Computed: true,
			},
			"website_host": schema.StringAttribute{
				Computed: true,
			},
			"find_string": schema.StringAttribute{
				Computed: true,
			},
			"do_not_find": schema.BoolAttribute{
				Computed: true,
			},
			"last_tested": schema.StringAttribute{
				Computed:    true,
				Description: "When the test last ran",
			},
			"node_locations": schema.ListAttribute{
				Computed:    true,
				ElementType: types.StringType,
			},
			"status_codes": schema.ListAttribute{
				Computed:    true,
				ElementType: types.StringType,
			},
			"tags": schema.ListAttribute{
				Computed:    true,
				ElementType: types.StringType,
			},
		},
	}
}

func (d *TestDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	client, diags := configureClient(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if client != nil {
		d.client = client
	}
}

func (d *TestDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var state TestDataSourceModel

	// Read Terraform configuration data into the model
	resp.Diagnostics.Append(req.Config.Get(ctx, &state)...)

	if resp.Diagnostics.HasError() {
		return
	}

	var testID int64
	if !state.ID.IsNull() {
		id, err := parseTestID(state.ID.ValueString())
		if err != nil {
			resp.Diagnostics.AddAttributeError(path.Root("id"), "Invalid test id", err.Error())
			return
		}
		testID = id
	} else {
		id, err := d.client.SearchTest(ctx, state.Name.ValueString())
		if err != nil {
			resp.Diagnostics.AddError("Unable to find StatusCake test", err.Error())
			return
		}
		testID = id
	}

	details, err := d.client.GetTest(ctx, testID)
	if err != nil {
		resp.Diagnostics.AddError("Unable to Read StatusCake test", err.Error())
		return
	}

	state.ID = formatTestID(details.TestID)
	state.Name = types.StringValue(details.WebsiteName)
	state.WebsiteURL = types.StringValue(details.URI)
	state.TestType = types.StringValue(details.TestType)
	state.CheckRate = types.Int64Value(details.CheckRate)
	state.Paused = types.BoolValue(details.Paused)
	state.Status = types.StringValue(details.Status)
	state.Uptime = types.Float64Value(details.Uptime)
	state.Timeout = types.Int64Value(details.Timeout)
	state.Port = types.Int64Value(details.Port)
	state.Confirmation = types.Int64Value(details.Confirmation)
	state.TriggerRate = types.Int64Value(details.TriggerRate)
	state.WebsiteHost = types.StringValue(details.WebsiteHost)
	state.FindString = types.StringValue(details.FindString)
	state.DoNotFind = types.BoolValue(details.DoNotFind)
	state.LastTested = types.StringValue(details.LastTested)
	state.NodeLocations = listValue(details.NodeLocations)
	state.StatusCodes = listValue(details.StatusCodes)
	state.Tags = listValue(details.Tags)

	// Set state
	diags := resp.State.Set(ctx, &state)
	resp.Diagnostics.Append(diags...)
}
