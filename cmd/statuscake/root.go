package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-log/tfsdklog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/logging"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/config"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/report"
	"github.com/skysqlinc/terraform-provider-statuscake/internal/statuscake"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries what every subcommand needs once the configuration is loaded.
type cli struct {
	v          *viper.Viper
	cfgFile    string
	httpClient *http.Client

	settings *config.Settings
	client   *statuscake.Client
	reporter report.Reporter
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithViper(viper.New(), nil)
}

func newRootCmdWithViper(v *viper.Viper, httpClient *http.Client) *cobra.Command {
	c := &cli{v: v, httpClient: httpClient}

	cmd := &cobra.Command{
		Use:   "statuscake",
		Short: "Manage StatusCake uptime tests.",
		Long: `statuscake calls the StatusCake API directly (locations, tests) and
reconciles tests against a desired state (state present, absent, apply).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initialize(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "Configuration file path (default is $HOME/.statuscake.yaml)")
	flags.String("api-key", "", "StatusCake API key")
	flags.String("username", "", "StatusCake username")
	flags.String("base-url", "", "StatusCake API base URL")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error, off)")
	flags.StringP("output", "o", "", "Output format (text, json)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Duration("timeout", 0, "HTTP request timeout")

	_ = v.BindPFlag(config.KeyAPIKey, flags.Lookup("api-key"))
	_ = v.BindPFlag(config.KeyUsername, flags.Lookup("username"))
	_ = v.BindPFlag("settings.base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("settings.log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("settings.output", flags.Lookup("output"))
	_ = v.BindPFlag("settings.no_color", flags.Lookup("no-color"))
	_ = v.BindPFlag("settings.timeout", flags.Lookup("timeout"))

	config.SetDefaults(v)
	config.BindEnv(v)

	cmd.AddCommand(
		newLocationsCmd(c),
		newTestsCmd(c),
		newStateCmd(c),
	)
	return cmd
}

func (c *cli) initialize(cmd *cobra.Command) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			c.v.AddConfigPath(home)
		}
		c.v.AddConfigPath(".")
		c.v.SetConfigName(".statuscake")
		c.v.SetConfigType("yaml")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings, err := config.LoadSettings(c.v)
	if err != nil {
		return err
	}
	c.settings = settings

	ctx := tfsdklog.NewRootProviderLogger(cmd.Context(),
		tfsdklog.WithLogName("statuscake"),
		tfsdklog.WithLevel(hclog.LevelFromString(settings.LogLevel)),
		tfsdklog.WithoutLocation(),
	)
	cmd.SetContext(ctx)
	tflog.Debug(ctx, "Configuration loaded", map[string]interface{}{
		"config_file": c.v.ConfigFileUsed(),
		"base_url":    settings.BaseURL,
		"output":      settings.Output,
	})

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: logging.NewLoggingHTTPTransport(http.DefaultTransport)}
	}
	if settings.Timeout > 0 {
		withTimeout := *httpClient
		withTimeout.Timeout = settings.Timeout
		httpClient = &withTimeout
	}

	c.client = statuscake.New(settings.BaseURL,
		statuscake.WithHTTPClient(httpClient),
		statuscake.WithConfig(config.NewViper(c.v)),
		statuscake.WithLocationsURL(settings.LocationsURL),
	)

	c.reporter, err = report.New(settings.Output, cmd.OutOrStdout(), settings.NoColor)
	return err
}

// result reports a client call through the configured reporter.
func (c *cli) result(ctx context.Context, data interface{}, err error) error {
	if err != nil {
		tflog.Debug(ctx, "StatusCake call failed", map[string]interface{}{"error": err.Error()})
		return c.reporter.Result(ctx, report.Failure(err))
	}
	return c.reporter.Result(ctx, report.Success(data))
}

func splitAssignment(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected Field=Value, got %q", s)
	}
	return k, v, nil
}
