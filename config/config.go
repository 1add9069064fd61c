package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all tool configuration.
type Config struct {
	Phabricator PhabricatorConfig
	Output      OutputConfig
	Query       QueryConfig
	Logger      LoggerConfig
}

type PhabricatorConfig struct {
	URL       string  // instance base URL, e.g. https://phab.example.com
	Token     string  // Conduit API token
	RateLimit float64 // client-side requests per second
}

type OutputConfig struct {
	Path   string // output spreadsheet path
	Format string // xlsx | csv; empty = infer from Path
}

type QueryConfig struct {
	Projects   []string
	Statuses   []string
	Priorities []string // human names, mapped to Conduit values later
	Owners     []string
	Since      string // date expression, see pkg/datemath
	Until      string
	Text       string // fulltext query
	Order      string
	Limit      int
	PageSize   int
	Timezone   string // IANA timezone for date expressions
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// Load loads configuration using Viper.
// Config file name: dumph.yaml — searched in ., ~/.config/dumph/
// Env vars use the DUMPH_ prefix, e.g. DUMPH_PHABRICATOR_TOKEN.
func Load() (*Config, error) {
	viper.SetConfigName("dumph")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/dumph/")

	viper.SetEnvPrefix("dumph")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Phabricator.URL = viper.GetString("phabricator.url")
	cfg.Phabricator.Token = viper.GetString("phabricator.token")
	cfg.Phabricator.RateLimit = viper.GetFloat64("phabricator.rate_limit")

	cfg.Output.Path = viper.GetString("output.path")
	cfg.Output.Format = viper.GetString("output.format")

	cfg.Query.Projects = viper.GetStringSlice("query.projects")
	cfg.Query.Statuses = viper.GetStringSlice("query.statuses")
	cfg.Query.Priorities = viper.GetStringSlice("query.priorities")
	cfg.Query.Owners = viper.GetStringSlice("query.owners")
	cfg.Query.Since = viper.GetString("query.since")
	cfg.Query.Until = viper.GetString("query.until")
	cfg.Query.Text = viper.GetString("query.text")
	cfg.Query.Order = viper.GetString("query.order")
	cfg.Query.Limit = viper.GetInt("query.limit")
	cfg.Query.PageSize = viper.GetInt("query.page_size")
	cfg.Query.Timezone = viper.GetString("query.timezone")

	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("phabricator.rate_limit", 4.0)
	viper.SetDefault("output.path", "tasks.xlsx")
	viper.SetDefault("query.order", "newest")
	viper.SetDefault("query.page_size", 100)
	viper.SetDefault("query.timezone", "UTC")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
}

// ResolveToken fills the token from ~/.arcrc when neither flag, env nor
// config file provided one. Arcanist keys its host map by the Conduit API
// URL, so the lookup normalizes the instance URL first.
func (c *Config) ResolveToken() {
	if c.Phabricator.Token != "" || c.Phabricator.URL == "" {
		return
	}
	c.Phabricator.Token = TokenFromArcrc(c.Phabricator.URL)
}

// Validate checks that the config is complete enough to run a dump.
func (c *Config) Validate() error {
	if c.Phabricator.URL == "" {
		return fmt.Errorf("phabricator URL is required (--url or DUMPH_PHABRICATOR_URL)")
	}
	if !strings.HasPrefix(c.Phabricator.URL, "http://") && !strings.HasPrefix(c.Phabricator.URL, "https://") {
		return fmt.Errorf("phabricator URL %q must start with http:// or https://", c.Phabricator.URL)
	}
	if c.Phabricator.Token == "" {
		return fmt.Errorf("conduit API token is required (--token, DUMPH_PHABRICATOR_TOKEN, or ~/.arcrc)")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}
