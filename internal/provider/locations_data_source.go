package provider

import (
	"context"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
)

// Ensure provider defined types fully satisfy framework interfaces
var _ datasource.DataSource = &LocationsDataSource{}

func NewLocationsDataSource() datasource.DataSource {
	return &LocationsDataSource{}
}

// LocationsDataSource lists the servers StatusCake tests run from.
type LocationsDataSource struct {
	client *statuscake.Client
}

type LocationsDataSourceModel struct {
	Locations []LocationModel `tfsdk:"locations"`
}

type LocationModel struct {
	GUID       types.String `tfsdk:"guid"`
	ServerCode types.String `tfsdk:"server_code"`
	Title      types.String `tfsdk:"title"`
	IP         types.String `tfsdk:"ip"`
	IPv6       types.String `tfsdk:"ipv6"`
	CountryISO types.String `tfsdk:"country_iso"`
	Status     types.String `tfsdk:"status"`
}

func (d *LocationsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_locations"
}

func (d *LocationsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "StatusCake monitoring locations",
		Attributes: map[string]schema.Attribute{
			"locations": schema.ListNestedAttribute{
				Computed: true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"guid": schema.StringAttribute{
							Computed: true,
						},
						"server_code": schema.StringAttribute{
							Computed:    true,
							Description: "The code to use in node_locations",
						},
						"title": schema.StringAttribute{
							Computed:    true,
							Description: "The name of the location",
						},
						"ip": schema.StringAttribute{
							Computed:    true,
							Description: "The IPv4 address tests are sent from",
						},
						"ipv6": schema.StringAttribute{
							Computed:    true,
							Description: "The IPv6 address tests are sent from",
						},
						"country_iso": schema.StringAttribute{
							Computed: true,
						},
						"status": schema.StringAttribute{
							Computed:    true,
							Description: "Whether the location is up",
						},
					},
				},
			},
		},
	}
}

func (d *LocationsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	client, diags := configureClient(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if client != nil {
		d.client = client
	}
}

func (d *LocationsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var state LocationsDataSourceModel

	locations, err := d.client.GetLocations(ctx)
	if err != nil {
		resp.Diagnostics.AddError("Unable to Read StatusCake locations", err.Error())
		return
	}

	state.Locations = []LocationModel{}
	for _, location := range locations {
		state.Locations = append(state.Locations, LocationModel{
			GUID:       types.StringValue(location.GUID),
			ServerCode: types.StringValue(location.ServerCode),
			Title:      types.StringValue(location.Title),
			IP:         types.StringValue(location.IP),
			IPv6:       types.StringValue(location.IPv6),
			CountryISO: types.StringValue(location.CountryISO),
			Status:     types.StringValue(location.Status),
		})
	}

	// Set state
	diags := resp.State.Set(ctx, &state)
	resp.Diagnostics.Append(diags...)
}
