package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://www.statuscake.com/API/"

// Output formats understood by the CLI reporters.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Settings holds the CLI settings read from flags, environment and the config file.
type Settings struct {
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	// LocationsURL defaults to Locations/json under BaseURL.
	LocationsURL string        `mapstructure:"locations_url" validate:"omitempty,url"`
	LogLevel     string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error off"`
	Output       string        `mapstructure:"output" validate:"oneof=text json"`
	NoColor      bool          `mapstructure:"no_color"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	DryRun       bool          `mapstructure:"dry_run"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:  DefaultBaseURL,
		LogLevel: "warn",
		Output:   OutputText,
		Timeout:  30 * time.Second,
	}
}

// SetDefaults registers the default settings on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("settings.base_url", d.BaseURL)
	v.SetDefault("settings.locations_url", d.LocationsURL)
	v.SetDefault("settings.log_level", d.LogLevel)
	v.SetDefault("settings.output", d.Output)
	v.SetDefault("settings.no_color", d.NoColor)
	v.SetDefault("settings.timeout", d.Timeout)
	v.SetDefault("settings.dry_run", d.DryRun)
}

// BindEnv binds the conventional environment variables to their keys.
func BindEnv(v *viper.Viper) {
	_ = v.BindEnv(KeyAPIKey, "STATUSCAKE_API_KEY")
	_ = v.BindEnv(KeyUsername, "STATUSCAKE_USERNAME")
	_ = v.BindEnv("settings.base_url", "STATUSCAKE_BASE_URL")
	_ = v.BindEnv("settings.log_level", "STATUSCAKE_LOG_LEVEL")
	_ = v.BindEnv("settings.output", "STATUSCAKE_OUTPUT")
}

// LoadSettings reads and validates the settings section of v. Call SetDefaults first.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	// Read per key: viper resolves a whole section from a single source.
	s := Settings{
		BaseURL:      v.GetString("settings.base_url"),
		LocationsURL: v.GetString("settings.locations_url"),
		LogLevel:     v.GetString("settings.log_level"),
		Output:       v.GetString("settings.output"),
		NoColor:      v.GetBool("settings.no_color"),
		Timeout:      v.GetDuration("settings.timeout"),
		DryRun:       v.GetBool("settings.dry_run"),
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.Output = strings.ToLower(strings.TrimSpace(s.Output))

	validate := validator.New()
	if err := validate.Struct(&s); err != nil {
		var details strings.Builder
		details.WriteString("invalid settings:")
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				details.WriteString(fmt.Sprintf("\n - %s: failed on '%s' (value: '%v')", fe.Field(), fe.Tag(), fe.Value()))
			}
		} else {
			details.WriteString(" " + err.Error())
		}
		return nil, fmt.Errorf("%s", details.String())
	}
	return &s, nil
}
