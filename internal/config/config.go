package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/ops-report/pkg/hubspot"
)

// Config holds the full application configuration.
type Config struct {
	HubSpot HubSpotConfig `yaml:"hubspot" mapstructure:"hubspot"`
	Slack   SlackConfig   `yaml:"slack" mapstructure:"slack"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// HubSpotConfig holds CRM credentials and the ticket pipeline to count.
type HubSpotConfig struct {
	Token        string `yaml:"token" mapstructure:"token"`
	PipelineID   string `yaml:"pipeline_id" mapstructure:"pipeline_id"`
	PipelineName string `yaml:"pipeline_name" mapstructure:"pipeline_name"`
	InboxID      string `yaml:"inbox_id" mapstructure:"inbox_id"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	ObjectType   string `yaml:"object_type" mapstructure:"object_type"`
	MaxPages     int    `yaml:"max_pages" mapstructure:"max_pages"`
	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SlackConfig holds the bot token and destination channel.
type SlackConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	Channel string `yaml:"channel" mapstructure:"channel"`
	// APIURL overrides the Web API base URL, e.g. for a proxy.
	APIURL string `yaml:"api_url" mapstructure:"api_url"`
}

// ReportConfig configures rendering and the report run.
type ReportConfig struct {
	TemplatePath    string  `yaml:"template_path" mapstructure:"template_path"`
	LayoutPath      string  `yaml:"layout_path" mapstructure:"layout_path"`
	FontPath        string  `yaml:"font_path" mapstructure:"font_path"`
	FontSize        float64 `yaml:"font_size" mapstructure:"font_size"`
	Timezone        string  `yaml:"timezone" mapstructure:"timezone"`
	DryRun          bool    `yaml:"dry_run" mapstructure:"dry_run"`
	DebugLabels     bool    `yaml:"debug_labels" mapstructure:"debug_labels"`
	FaultTolerant   bool    `yaml:"fault_tolerant" mapstructure:"fault_tolerant"`
	Slots           string  `yaml:"slots" mapstructure:"slots"`
	CaptionTemplate string  `yaml:"caption_template" mapstructure:"caption_template"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OPSREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default are still registered so
	// AutomaticEnv picks them up on Unmarshal.
	v.SetDefault("hubspot.token", "")
	v.SetDefault("hubspot.pipeline_id", "")
	v.SetDefault("hubspot.pipeline_name", "")
	v.SetDefault("hubspot.inbox_id", "")
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	v.SetDefault("hubspot.object_type", "tickets")
	v.SetDefault("hubspot.max_pages", 1000)
	v.SetDefault("hubspot.rate_limit", 4)
	v.SetDefault("slack.token", "")
	v.SetDefault("slack.channel", "")
	v.SetDefault("slack.api_url", "")
	v.SetDefault("report.template_path", "report_template.png")
	v.SetDefault("report.layout_path", "")
	v.SetDefault("report.font_path", "DejaVuSans-Bold.ttf")
	v.SetDefault("report.font_size", 16)
	v.SetDefault("report.timezone", "America/Sao_Paulo")
	v.SetDefault("report.dry_run", false)
	v.SetDefault("report.debug_labels", false)
	v.SetDefault("report.fault_tolerant", false)
	v.SetDefault("report.slots", "")
	v.SetDefault("report.caption_template", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a run needs before any network call. Slack
// settings are only required when publishing; a CRM token requires a
// pipeline hint. The returned error wraps hubspot.ErrConfigurationMissing.
func (c *Config) Validate(dryRun bool) error {
	var missing []string

	if !dryRun {
		if strings.TrimSpace(c.Slack.Token) == "" {
			missing = append(missing, "slack.token is required")
		}
		if strings.TrimSpace(c.Slack.Channel) == "" {
			missing = append(missing, "slack.channel is required")
		}
	}

	if c.HasHubSpot() && c.PipelineHint().Empty() {
		missing = append(missing, "hubspot.pipeline_id or hubspot.pipeline_name is required")
	}

	if len(missing) > 0 {
		return eris.Wrapf(hubspot.ErrConfigurationMissing, "config: validation failed: %s", strings.Join(missing, "; "))
	}
	return nil
}

// HasHubSpot reports whether a CRM token is configured.
func (c *Config) HasHubSpot() bool {
	return strings.TrimSpace(c.HubSpot.Token) != ""
}

// PipelineHint returns the configured pipeline selector.
func (c *Config) PipelineHint() hubspot.PipelineHint {
	return hubspot.PipelineHint{ID: c.HubSpot.PipelineID, Name: c.HubSpot.PipelineName}
}

// Location loads the report timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return nil, eris.Wrapf(err, "config: load timezone %q", c.Report.Timezone)
	}
	return loc, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
