package provider

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/terraform-plugin-framework-timeouts/resource/timeouts"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/listplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"time"
)

const (
	defaultCreateTimeout = 5 * time.Minute
	defaultDeleteTimeout = 5 * time.Minute
)

var testTypes = []string{"HTTP", "TCP", "PING", "DNS", "SMTP", "SSH", "HEAD", "PUSH"}

// Ensure provider defined types fully satisfy framework interfaces
var _ resource.Resource = &TestResource{}
var _ resource.ResourceWithImportState = &TestResource{}
var _ resource.ResourceWithConfigure = &TestResource{}

func NewTestResource() resource.Resource {
	return &TestResource{}
}

// TestResource manages a StatusCake uptime test. Existing tests with the same
// name are adopted as they are; every attribute change replaces the test.
type TestResource struct {
	client *statuscake.Client
}

// TestResourceModel describes the resource data model.
type TestResourceModel struct {
	ID            types.String   `tfsdk:"id"`
	Name          types.String   `tfsdk:"name"`
	WebsiteURL    types.String   `tfsdk:"website_url"`
	CheckRate     types.Int64    `tfsdk:"check_rate"`
	TestType      types.String   `tfsdk:"test_type"`
	Paused        types.Bool     `tfsdk:"paused"`
	Timeout       types.Int64    `tfsdk:"timeout"`
	Port          types.Int64    `tfsdk:"port"`
	Confirmation  types.Int64    `tfsdk:"confirmation"`
	TriggerRate   types.Int64    `tfsdk:"trigger_rate"`
	NodeLocations types.List     `tfsdk:"node_locations"`
	ContactGroup  types.List     `tfsdk:"contact_group"`
	TestTags      types.List     `tfsdk:"test_tags"`
	StatusCodes   types.List     `tfsdk:"status_codes"`
	FindString    types.String   `tfsdk:"find_string"`
	DoNotFind     types.Bool     `tfsdk:"do_not_find"`
	WebsiteHost   types.String   `tfsdk:"website_host"`
	BasicUser     types.String   `tfsdk:"basic_user"`
	BasicPass     types.String   `tfsdk:"basic_pass"`
	Timeouts      timeouts.Value `tfsdk:"timeouts"`
}

func (r *TestResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_test"
}

func (r *TestResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	replaceString := []planmodifier.String{stringplanmodifier.RequiresReplace()}
	replaceInt64 := []planmodifier.Int64{int64planmodifier.RequiresReplace()}
	replaceBool := []planmodifier.Bool{boolplanmodifier.RequiresReplace()}
	replaceList := []planmodifier.List{listplanmodifier.RequiresReplace()}

	resp.Schema = schema.Schema{
		Description: "Creates and manages an uptime test in StatusCake. If a test with the same name already exists it is adopted without being updated.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
				Description: "The StatusCake TestID",
			},
			"name": schema.StringAttribute{
				Required:      true,
				Description:   "The name of the test (WebsiteName). Tests are matched by this name",
				PlanModifiers: replaceString,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"website_url": schema.StringAttribute{
				Required:      true,
				Description:   "The URL or IP address to check",
				PlanModifiers: replaceString,
				Validators: []validator.String{
					websiteURLValidator{},
				},
			},
			"check_rate": schema.Int64Attribute{
				Optional:    true,
				Computed:    true,
				Description: fmt.Sprintf("Seconds between checks. Defaults to %d", state.DefaultCheckRate),
				PlanModifiers: []planmodifier.Int64{
					int64planmodifier.UseStateForUnknown(),
					int64planmodifier.RequiresReplace(),
				},
				Validators: []validator.Int64{
					int64validator.Between(1, 24000),
				},
			},
			"test_type": schema.StringAttribute{
				Optional:    true,
				Computed:    true,
				Description: "The type of test. Valid values are: " + fmt.Sprint(testTypes) + ". Defaults to " + state.DefaultTestType,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
					stringplanmodifier.RequiresReplace(),
				},
				Validators: []validator.String{
					stringvalidator.OneOf(testTypes...),
				},
			},
			"paused": schema.BoolAttribute{
				Optional:      true,
				Description:   "Whether the test is paused",
				PlanModifiers: replaceBool,
			},
			"timeout": schema.Int64Attribute{
				Optional:      true,
				Description:   "Seconds to wait for a response, between 5 and 100",
				PlanModifiers: replaceInt64,
				Validators: []validator.Int64{
					int64validator.Between(5, 100),
				},
			},
			"port": schema.Int64Attribute{
				Optional:      true,
				Description:   "The port to use for TCP tests",
				PlanModifiers: replaceInt64,
			},
			"confirmation": schema.Int64Attribute{
				Optional:      true,
				Description:   "Number of confirmation servers to use before sending an alert, between 0 and 10",
				PlanModifiers: replaceInt64,
				Validators: []validator.Int64{
					int64validator.Between(0, 10),
				},
			},
			"trigger_rate": schema.Int64Attribute{
				Optional:      true,
				Description:   "Minutes to wait before sending an alert",
				PlanModifiers: replaceInt64,
			},
			"node_locations": schema.ListAttribute{
				Optional:      true,
				ElementType:   types.StringType,
				Description:   "Server codes of the locations to test from",
				PlanModifiers: replaceList,
			},
			"contact_group": schema.ListAttribute{
				Optional:      true,
				ElementType:   types.StringType,
				Description:   "Contact group ids to alert",
				PlanModifiers: replaceList,
			},
			"test_tags": schema.ListAttribute{
				Optional:      true,
				ElementType:   types.StringType,
				Description:   "Tags of the test",
				PlanModifiers: replaceList,
			},
			"status_codes": schema.ListAttribute{
				Optional:      true,
				ElementType:   types.StringType,
				Description:   "HTTP status codes that trigger an alert",
				PlanModifiers: replaceList,
			},
			"find_string": schema.StringAttribute{
				Optional:      true,
				Description:   "A string that must be present in the response",
				PlanModifiers: replaceString,
			},
			"do_not_find": schema.BoolAttribute{
				Optional:      true,
				Description:   "Alert when find_string is present instead of absent",
				PlanModifiers: replaceBool,
			},
			"website_host": schema.StringAttribute{
				Optional:      true,
				Description:   "The hosting provider of the website",
				PlanModifiers: replaceString,
			},
			"basic_user": schema.StringAttribute{
				Optional:      true,
				Description:   "Basic auth username",
				PlanModifiers: replaceString,
			},
			"basic_pass": schema.StringAttribute{
				Optional:      true,
				Sensitive:     true,
				Description:   "Basic auth password",
				PlanModifiers: replaceString,
			},
		},
		Blocks: map[string]schema.Block{
			"timeouts": timeouts.Block(ctx, timeouts.Opts{
				Create: true,
				Delete: true,
			}),
		},
	}
}

func (r *TestResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	client, diags := configureClient(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if client != nil {
		r.client = client
	}
}

func (r *TestResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data *TestResourceModel

	// Read Terraform plan data into the model
	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	createTimeout, diags := data.Timeouts.Create(ctx, defaultCreateTimeout)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	spec, diags := data.spec(ctx)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	decision := state.New(r.client).Present(ctx, data.Name.ValueString(), spec)
	if decision.Failed {
		resp.Diagnostics.AddError("Error creating test", fmt.Sprintf("%s %s", decision.Comment, decision.Error))
		return
	}
	if !decision.Changed {
		resp.Diagnostics.AddWarning("Existing test adopted", decision.Comment)
	}

	testID := decision.TestID
	if testID == 0 {
		resp.Diagnostics.AddError("Error creating test", fmt.Sprintf("%s StatusCake did not return the id of the created test.", decision.Comment))
		return
	}

	// save into the Terraform state.
	data.ID = formatTestID(testID)
	if data.CheckRate.IsUnknown() || data.CheckRate.IsNull() {
		data.CheckRate = types.Int64Value(state.DefaultCheckRate)
	}
	if data.TestType.IsUnknown() || data.TestType.IsNull() {
		data.TestType = types.StringValue(state.DefaultTestType)
	}

	tflog.Trace(ctx, "created a resource", map[string]interface{}{"test_id": testID, "adopted": !decision.Changed})

	// Save data into Terraform state
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *TestResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data *TestResourceModel

	// Read Terraform prior state data into the model
	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	testID, err := parseTestID(data.ID.ValueString())
	if err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("id"), "Invalid test id", err.Error())
		return
	}

	details, err := r.client.GetTest(ctx, testID)
	if err != nil {
		if errors.Is(err, statuscake.ErrorTestNotFound) {
			tflog.Warn(ctx, "Test not found, removing from state", map[string]interface{}{"test_id": testID})
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.AddError("Can not find test", err.Error())
		return
	}

	data.Name = types.StringValue(details.WebsiteName)
	data.WebsiteURL = types.StringValue(details.URI)
	data.CheckRate = types.Int64Value(details.CheckRate)
	data.TestType = types.StringValue(details.TestType)

	// Optional attributes are only refreshed when they are managed.
	if !data.Paused.IsNull() {
		data.Paused = types.BoolValue(details.Paused)
	}
	if !data.Timeout.IsNull() {
		data.Timeout = types.Int64Value(details.Timeout)
	}
	if !data.Port.IsNull() {
		data.Port = types.Int64Value(details.Port)
	}
	if !data.Confirmation.IsNull() {
		data.Confirmation = types.Int64Value(details.Confirmation)
	}
	if !data.TriggerRate.IsNull() {
		data.TriggerRate = types.Int64Value(details.TriggerRate)
	}
	if !data.FindString.IsNull() {
		data.FindString = types.StringValue(details.FindString)
	}
	if !data.DoNotFind.IsNull() {
		data.DoNotFind = types.BoolValue(details.DoNotFind)
	}
	if !data.WebsiteHost.IsNull() {
		data.WebsiteHost = types.StringValue(details.WebsiteHost)
	}
	if !data.NodeLocations.IsNull() {
		data.NodeLocations = listValue(details.NodeLocations)
	}
	if !data.StatusCodes.IsNull() {
		data.StatusCodes = listValue(details.StatusCodes)
	}
	if !data.TestTags.IsNull() {
		data.TestTags = listValue(details.Tags)
	}

	// Save updated data into Terraform state
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Update is only reached for changes of the timeouts block, every other
// attribute requires replacement.
func (r *TestResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var plan *TestResourceModel
	var prior *TestResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &prior)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if plan.ID.IsUnknown() {
		plan.ID = prior.ID
	}
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

func (r *TestResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data *TestResourceModel

	// Read Terraform prior state data into the model
	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	deleteTimeout, diags := data.Timeouts.Delete(ctx, defaultDeleteTimeout)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	testID, err := parseTestID(data.ID.ValueString())
	if err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("id"), "Invalid test id", err.Error())
		return
	}

	_, err = r.client.DeleteTest(ctx, testID)
	if err != nil && !errors.Is(err, statuscake.ErrorTestNotFound) {
		resp.Diagnostics.AddError("Error deleting test", err.Error())
		return
	}
}

func (r *TestResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)
}

// spec converts the planned attributes into a reconciler test spec.
func (m *TestResourceModel) spec(ctx context.Context) (state.TestSpec, diag.Diagnostics) {
	var diags diag.Diagnostics

	spec := state.TestSpec{
		WebsiteName: m.Name.ValueString(),
		WebsiteURL:  m.WebsiteURL.ValueString(),
		Fields:      params.Values{},
	}
	if !m.CheckRate.IsUnknown() && !m.CheckRate.IsNull() {
		spec.CheckRate = m.CheckRate.ValueInt64()
	}
	if !m.TestType.IsUnknown() && !m.TestType.IsNull() {
		spec.TestType = m.TestType.ValueString()
	}

	setBool := func(field string, v types.Bool) {
		if !v.IsNull() && !v.IsUnknown() {
			spec.Fields[field] = v.ValueBool()
		}
	}
	setInt64 := func(field string, v types.Int64) {
		if !v.IsNull() && !v.IsUnknown() {
			spec.Fields[field] = v.ValueInt64()
		}
	}
	setString := func(field string, v types.String) {
		if !v.IsNull() && !v.IsUnknown() {
			spec.Fields[field] = v.ValueString()
		}
	}
	setList := func(field string, v types.List) {
		values, listDiags := stringList(ctx, v)
		diags.Append(listDiags...)
		if values != nil {
			spec.Fields[field] = values
		}
	}

	setBool("Paused", m.Paused)
	setInt64("Timeout", m.Timeout)
	setInt64("Port", m.Port)
	setInt64("Confirmation", m.Confirmation)
	setInt64("TriggerRate", m.TriggerRate)
	setList("NodeLocations", m.NodeLocations)
	setList("ContactGroup", m.ContactGroup)
	setList("TestTags", m.TestTags)
	setList("StatusCodes", m.StatusCodes)
	setString("FindString", m.FindString)
	setBool("DoNotFind", m.DoNotFind)
	setString("WebsiteHost", m.WebsiteHost)
	setString("BasicUser", m.BasicUser)
	setString("BasicPass", m.BasicPass)

	return spec, diags
}
