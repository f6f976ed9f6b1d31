package provider

import (
	"context"
	"fmt"
	"github.com/asaskevich/govalidator"
	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"strconv"
)

type websiteURLValidator struct{}

// Description returns a plain text description of the validator's behavior, suitable for a practitioner to understand its impact.
func (v websiteURLValidator) Description(ctx context.Context) string {
	return "Website URL must be a valid URL or IP address, for example https://example.com or 192.0.2.10."
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior, suitable for a practitioner to understand its impact.
func (v websiteURLValidator) MarkdownDescription(ctx context.Context) string {
	return "Website URL must be a valid URL or IP address, for example `https://example.com` or `192.0.2.10`."
}

// ValidateString Validate runs the main validation logic of the validator, reading configuration data out of `req` and updating `resp` with diagnostics.
func (v websiteURLValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// If the value is unknown or null, there is nothing to validate.
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()
	if !govalidator.IsURL(value) && !govalidator.IsIP(value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Incorrect website URL format",
			v.Description(ctx),
		)
	}
}

func parseTestID(id string) (int64, error) {
	testID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || testID <= 0 {
		return 0, fmt.Errorf("%q is not a valid StatusCake test id", id)
	}
	return testID, nil
}

func formatTestID(id int64) types.String {
	return types.StringValue(strconv.FormatInt(id, 10))
}

func stringList(ctx context.Context, list types.List) ([]string, diag.Diagnostics) {
	if list.IsNull() || list.IsUnknown() {
		return nil, nil
	}
	var values []string
	diags := list.ElementsAs(ctx, &values, false)
	return values, diags
}

func listValue(values []string) types.List {
	elements := make([]attr.Value, 0, len(values))
	for _, v := range values {
		elements = append(elements, types.StringValue(v))
	}
	return types.ListValueMust(types.StringType, elements)
}

func configureClient(providerData any) (*statuscake.Client, diag.Diagnostics) {
	var diags diag.Diagnostics
	// Prevent panic if the provider has not been configured.
	if providerData == nil {
		return nil, diags
	}

	client, ok := providerData.(*statuscake.Client)
	if !ok {
		diags.AddError(
			"Unexpected Configure Type",
			fmt.Sprintf("Expected *statuscake.Client, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return nil, diags
	}
	return client, diags
}
