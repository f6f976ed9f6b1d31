package provider

import (
	"context"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
)

// Ensure provider defined types fully satisfy framework interfaces
var _ datasource.DataSource = &TestsDataSource{}

func NewTestsDataSource() datasource.DataSource {
	return &TestsDataSource{}
}

// TestsDataSource lists every uptime test of the account.
type TestsDataSource struct {
	client *statuscake.Client
}

type TestsDataSourceModel struct {
	Tests []TestModel `tfsdk:"tests"`
}

type TestModel struct {
	ID         types.String  `tfsdk:"id"`
	Name       types.String  `tfsdk:"name"`
	WebsiteURL types.String  `tfsdk:"website_url"`
	TestType   types.String  `tfsdk:"test_type"`
	CheckRate  types.Int64   `tfsdk:"check_rate"`
	Paused     types.Bool    `tfsdk:"paused"`
	Status     types.String  `tfsdk:"status"`
	Uptime     types.Float64 `tfsdk:"uptime"`
}

func (d *TestsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_tests"
}

func (d *TestsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "StatusCake uptime tests",
		Attributes: map[string]schema.Attribute{
			"tests": schema.ListNestedAttribute{
				Computed: true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id": schema.StringAttribute{
							Computed:    true,
							Description: "The TestID of the test",
						},
						"name": schema.StringAttribute{
							Computed:    true,
							Description: "The name of the test",
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
					},
				},
			},
		},
	}
}

func (d *TestsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	client, diags := configureClient(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if client != nil {
		d.client = client
	}
}

func (d *TestsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var state TestsDataSourceModel

	// Read Terraform configuration data into the model
	resp.Diagnostics.Append(req.Config.Get(ctx, &state)...)

	if resp.Diagnostics.HasError() {
		return
	}

	tests, err := d.client.GetAllTests(ctx)
	if err != nil {
		resp.Diagnostics.AddError("Unable to Read StatusCake tests", err.Error())
		return
	}

	state.Tests = []TestModel{}
	for _, test := range tests {
		state.Tests = append(state.Tests, TestModel{
			ID:         formatTestID(test.TestID),
			Name:       types.StringValue(test.WebsiteName),
			WebsiteURL: types.StringValue(test.WebsiteURL),
			TestType:   types.StringValue(test.TestType),
			CheckRate:  types.Int64Value(test.CheckRate),
			Paused:     types.BoolValue(test.Paused),
			Status:     types.StringValue(test.Status),
			Uptime:     types.Float64Value(test.Uptime),
		})
	}

	// Set state
	diags := resp.State.Set(ctx, &state)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
}
