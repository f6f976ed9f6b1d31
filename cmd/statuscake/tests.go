package main

import (
	"fmt"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake/params"
	"github.com/spf13/cobra"
)

func newLocationsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations StatusCake runs tests from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := c.client.GetLocations(cmd.Context())
			return c.result(cmd.Context(), locs, err)
		},
	}
}

func newTestsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Call the StatusCake tests API",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all tests",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tests, err := c.client.GetAllTests(cmd.Context())
				return c.result(cmd.Context(), tests, err)
			},
		},
		&cobra.Command{
			Use:   "get TEST_ID",
			Short: "Show a test",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseTestID(args[0])
				if err != nil {
					return err
				}
				details, err := c.client.GetTest(cmd.Context(), id)
				return c.result(cmd.Context(), details, err)
			},
		},
		&cobra.Command{
			Use:   "search NAME",
			Short: "Find the id of the test with the given name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := c.client.SearchTest(cmd.Context(), args[0])
				return c.result(cmd.Context(), map[string]interface{}{"TestID": id}, err)
			},
		},
		newTestsAddCmd(c),
		newTestsUpdateCmd(c),
		&cobra.Command{
			Use:   "delete TEST_ID",
			Short: "Delete a test",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseTestID(args[0])
				if err != nil {
					return err
				}
				resp, err := c.client.DeleteTest(cmd.Context(), id)
				return c.result(cmd.Context(), resp, err)
			},
		},
	)
	return cmd
}

func newTestsAddCmd(c *cli) *cobra.Command {
	var (
		websiteName string
		websiteURL  string
		checkRate   int64
		testType    string
		set         []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(set, flagFields)
			if err != nil {
				return err
			}
			if !govalidator.IsURL(websiteURL) {
				return fmt.Errorf("invalid website url %q", websiteURL)
			}
			values["WebsiteName"] = websiteName
			values["WebsiteURL"] = websiteURL
			values["CheckRate"] = checkRate
			values["TestType"] = testType

			resp, err := c.client.AddTest(cmd.Context(), values)
			return c.result(cmd.Context(), resp, err)
		},
	}

	cmd.Flags().StringVar(&websiteName, "website-name", "", "Name of the test")
	cmd.Flags().StringVar(&websiteURL, "website-url", "", "URL or IP address to check")
	cmd.Flags().Int64Var(&checkRate, "check-rate", 60, "Seconds between checks")
	cmd.Flags().StringVar(&testType, "test-type", "HTTP", "Test type (HTTP, TCP, PING, ...)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Additional test field as Field=Value, repeatable")
	_ = cmd.MarkFlagRequired("website-name")
	_ = cmd.MarkFlagRequired("website-url")
	return cmd
}

func newTestsUpdateCmd(c *cli) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "update TEST_ID",
		Short: "Update fields of an existing test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTestID(args[0])
			if err != nil {
				return err
			}
			values, err := parseFields(set, nil)
			if err != nil {
				return err
			}
			resp, err := c.client.UpdateTest(cmd.Context(), id, values)
			return c.result(cmd.Context(), resp, err)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "Test field as Field=Value, repeatable")
	return cmd
}

func parseTestID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid test id %q", s)
	}
	return id, nil
}

// flagFields maps the test fields that have a dedicated flag to that flag.
var flagFields = map[string]string{
	"WebsiteName": "website-name",
	"WebsiteURL":  "website-url",
	"CheckRate":   "check-rate",
	"TestType":    "test-type",
}

// parseFields turns repeated Field=Value flags into form values. Fields listed
// in reserved must be given through their own flag.
func parseFields(assignments []string, reserved map[string]string) (params.Values, error) {
	values := params.Values{}
	for _, a := range assignments {
		k, v, err := splitAssignment(a)
		if err != nil {
			return nil, err
		}
		if !params.IsTestField(k) {
			return nil, fmt.Errorf("unknown test field %q", k)
		}
		if flag, ok := reserved[k]; ok {
			return nil, fmt.Errorf("field %q has its own flag, use --%s", k, flag)
		}
		values[k] = v
	}
	return values, nil
}
