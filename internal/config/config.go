package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/spf13/viper"
)

// SeasonCurrent resolves to the season containing the start-up date
const SeasonCurrent = "current"

// Sites used by built-in fetches; listings may not take them
const (
	SpotlightSite = "spotlight"
	LookupSite    = "lookup"
)

// Config holds all application configuration
type Config struct {
	API      APIConfig       `mapstructure:"api"`
	Player   PlayerConfig    `mapstructure:"player"`
	UI       UIConfig        `mapstructure:"ui"`
	Listings []ListingConfig `mapstructure:"listings"`
	Logging  LoggingConfig   `mapstructure:"logging"`

	// File is the config file that was read, empty when only defaults apply
	File string `mapstructure:"-"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PlayerConfig holds trailer player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty = auto-detect
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Accent    string `mapstructure:"accent"`   // Fallback accent when an item has no color
	PerPage   int    `mapstructure:"per_page"` // Items per listing unless the listing overrides it
	Spotlight bool   `mapstructure:"spotlight"`
}

// ListingConfig describes one listing row
type ListingConfig struct {
	Site       string   `mapstructure:"site"`
	Headline   string   `mapstructure:"headline"`
	Sort       []string `mapstructure:"sort"`
	Season     string   `mapstructure:"season"` // WINTER..FALL, "current", or empty
	SeasonYear int      `mapstructure:"season_year"`
	Genres     []string `mapstructure:"genres"`
	Format     []string `mapstructure:"format"`
	PerPage    int      `mapstructure:"per_page"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: anilist.DefaultEndpoint,
			Timeout:  30 * time.Second,
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			Accent:    "#3db4f2",
			PerPage:   15,
			Spotlight: true,
		},
		Listings: DefaultListings(),
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// DefaultListings returns the Trending, Most Popular and Highest Rated rows
func DefaultListings() []ListingConfig {
	return []ListingConfig{
		{Site: "trending", Headline: "Trending", Sort: []string{anilist.SortTrendingDesc}, Season: SeasonCurrent},
		{Site: "popular", Headline: "Most Popular", Sort: []string{anilist.SortPopularityDesc}},
		{Site: "rated", Headline: "Highest Rated", Sort: []string{anilist.SortScoreDesc}},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "anikino", "anikino.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "anikino", "anikino.log")
	}
}

// DefaultDir returns the default config directory for the current OS
func DefaultDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "anikino")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "anikino")
	}
}

// LoadConfig loads configuration from the default locations and the environment
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(DefaultDir())
	v.AddConfigPath(".")
	return load(v)
}

// LoadConfigFile loads configuration from path and the environment
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides, e.g. ANIKINO_API_ENDPOINT
	v.SetEnvPrefix("ANIKINO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Known keys so env overrides reach Unmarshal without a file
	d := DefaultConfig()
	v.SetDefault("api.endpoint", d.API.Endpoint)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("player.command", d.Player.Command)
	v.SetDefault("ui.accent", d.UI.Accent)
	v.SetDefault("ui.per_page", d.UI.PerPage)
	v.SetDefault("ui.spotlight", d.UI.Spotlight)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	return v
}

func load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	// Decoding into a populated slice merges element-wise; start empty
	cfg.Listings = nil

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if len(cfg.Listings) == 0 {
		cfg.Listings = DefaultListings()
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the UI cannot recover from
func (c *Config) Validate() error {
	if _, err := colorful.Hex(c.UI.Accent); err != nil {
		return fmt.Errorf("invalid ui.accent %q: must be a hex color like #3db4f2", c.UI.Accent)
	}
	if c.UI.PerPage < 1 || c.UI.PerPage > anilist.MaxPerPage {
		return fmt.Errorf("invalid ui.per_page %d: must be between 1 and %d", c.UI.PerPage, anilist.MaxPerPage)
	}

	seen := make(map[string]bool, len(c.Listings))
	for i, l := range c.Listings {
		if l.Site == "" {
			return fmt.Errorf("listing %d: site is required", i)
		}
		if l.Site == SpotlightSite || l.Site == LookupSite {
			return fmt.Errorf("listing %d: site %q is reserved", i, l.Site)
		}
		if seen[l.Site] {
			return fmt.Errorf("listing %d: duplicate site %q", i, l.Site)
		}
		seen[l.Site] = true

		if err := l.Variables(time.Now(), c.UI.PerPage).Validate(); err != nil {
			return fmt.Errorf("listing %q: %w", l.Site, err)
		}
	}
	return nil
}

// Variables builds the page variables for the listing at time now.
// perPage applies when the listing does not set its own size.
func (l ListingConfig) Variables(now time.Time, perPage int) anilist.PageVariables {
	vars := anilist.PageVariables{
		Sort:       l.Sort,
		Season:     strings.ToUpper(l.Season),
		SeasonYear: l.SeasonYear,
		Genres:     l.Genres,
		Format:     l.Format,
		PerPage:    perPage,
	}
	if l.PerPage > 0 {
		vars.PerPage = l.PerPage
	}
	if strings.EqualFold(l.Season, SeasonCurrent) {
		vars.Season, vars.SeasonYear = anilist.CurrentSeason(now)
	}
	return vars
}

// ErrConfigExists is returned by InitConfig when the target file is present
var ErrConfigExists = errors.New("config file already exists")

// InitConfig writes the default configuration to path, or to config.yaml in
// DefaultDir when path is empty, and returns the file written. An existing
// file is only replaced when force is set.
func InitConfig(path string, force bool) (string, error) {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		return path, err
	}
	return path, nil
}

// SaveConfig writes cfg as YAML to path, creating the directory if needed
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure snake_case key names
	v.Set("api.endpoint", cfg.API.Endpoint)
	v.Set("api.timeout", cfg.API.Timeout.String())

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("ui.accent", cfg.UI.Accent)
	v.Set("ui.per_page", cfg.UI.PerPage)
	v.Set("ui.spotlight", cfg.UI.Spotlight)

	listings := make([]map[string]any, 0, len(cfg.Listings))
	for _, l := range cfg.Listings {
		entry := map[string]any{
			"site":     l.Site,
			"headline": l.Headline,
			"sort":     l.Sort,
		}
		if l.Season != "" {
			entry["season"] = l.Season
		}
		if l.SeasonYear != 0 {
			entry["season_year"] = l.SeasonYear
		}
		if len(l.Genres) > 0 {
			entry["genres"] = l.Genres
		}
		if len(l.Format) > 0 {
			entry["format"] = l.Format
		}
		if l.PerPage != 0 {
			entry["per_page"] = l.PerPage
		}
		listings = append(listings, entry)
	}
	v.Set("listings", listings)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
