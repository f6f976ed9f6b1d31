package main

import (
	"github.com/skysqlinc/terraform-provider-statuscake/internal/manifest"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/state"
	"github.com/spf13/cobra"
)

func newStateCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Reconcile tests against a desired state",
	}
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report the changes without making them")
	_ = c.v.BindPFlag("settings.dry_run", cmd.PersistentFlags().Lookup("dry-run"))

	reconciler := func() *state.Reconciler {
		return state.New(c.client, state.WithDryRun(c.settings.DryRun))
	}

	cmd.AddCommand(newStatePresentCmd(c, reconciler), newStateAbsentCmd(c, reconciler), newStateApplyCmd(c, reconciler))
	return cmd
}

func newStatePresentCmd(c *cli, reconciler func() *state.Reconciler) *cobra.Command {
	var (
		spec state.TestSpec
		set  []string
	)

	cmd := &cobra.Command{
		Use:   "present NAME",
		Short: "Ensure a test exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(set, flagFields)
			if err != nil {
				return err
			}
			spec.Fields = fields
			d := reconciler().Present(cmd.Context(), args[0], spec)
			return c.reporter.Decisions(cmd.Context(), []state.Decision{d})
		},
	}

	cmd.Flags().StringVar(&spec.WebsiteName, "website-name", "", "Name of the test (defaults to NAME)")
	cmd.Flags().StringVar(&spec.WebsiteURL, "website-url", "", "URL or IP address to check")
	cmd.Flags().Int64Var(&spec.CheckRate, "check-rate", state.DefaultCheckRate, "Seconds between checks")
	cmd.Flags().StringVar(&spec.TestType, "test-type", state.DefaultTestType, "Test type")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Additional test field as Field=Value, repeatable")
	_ = cmd.MarkFlagRequired("website-url")
	return cmd
}

func newStateAbsentCmd(c *cli, reconciler func() *state.Reconciler) *cobra.Command {
	var websiteName string

	cmd := &cobra.Command{
		Use:   "absent NAME",
		Short: "Ensure a test does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := reconciler().Absent(cmd.Context(), args[0], websiteName)
			return c.reporter.Decisions(cmd.Context(), []state.Decision{d})
		},
	}
	cmd.Flags().StringVar(&websiteName, "website-name", "", "Name of the test (defaults to NAME)")
	return cmd
}

func newStateApplyCmd(c *cli, reconciler func() *state.Reconciler) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile every test declared in a manifest file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.ParseFile(file)
			if err != nil {
				return err
			}
			return c.reporter.Decisions(cmd.Context(), m.Apply(cmd.Context(), reconciler()))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file (HCL or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
