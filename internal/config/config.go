// Package config provides configuration management for focus.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/focus-cli/internal/domain"
)

const defaultDataDir = "~/.focus"

// ErrUnknownKey is returned by Set for keys that are not configurable.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all configuration for the focus application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds the session durations and transition rules.
type TimerConfig struct {
	WorkDuration      Duration `mapstructure:"work_duration"`
	ShortBreak        Duration `mapstructure:"short_break"`
	LongBreak         Duration `mapstructure:"long_break"`
	LongBreakInterval int      `mapstructure:"long_break_interval"`
	AutoStartBreaks   bool     `mapstructure:"auto_start_breaks"`
	AutoStartWork     bool     `mapstructure:"auto_start_work"`
	Presets           []int    `mapstructure:"presets"`
}

// ThemeConfig holds the colors used by the terminal UI.
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorTask          string `mapstructure:"color_task"`
	ColorHelp          string `mapstructure:"color_help"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#7C6FE0",
		ColorBreak:         "#4ECDC4",
		ColorPaused:        "#6B7280",
		ColorTitle:         "#6B7280",
		ColorTask:          "#A0AEC0",
		ColorHelp:          "#95A5A6",
		WorkGradientStart:  "#7C6FE0",
		WorkGradientEnd:    "#A78BFA",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
	}
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. An empty File means focus.log in the data directory.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			WorkDuration:      Duration(25 * time.Minute),
			ShortBreak:        Duration(5 * time.Minute),
			LongBreak:         Duration(15 * time.Minute),
			LongBreakInterval: 4,
			Presets:           []int{15, 25, 45, 60},
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level: "info",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating it with defaults if missing.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(DefaultConfig(), configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the configuration to path as TOML.
func SaveTo(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")

	v.Set("timer.work_duration", cfg.Timer.WorkDuration.String())
	v.Set("timer.short_break", cfg.Timer.ShortBreak.String())
	v.Set("timer.long_break", cfg.Timer.LongBreak.String())
	v.Set("timer.long_break_interval", cfg.Timer.LongBreakInterval)
	v.Set("timer.auto_start_breaks", cfg.Timer.AutoStartBreaks)
	v.Set("timer.auto_start_work", cfg.Timer.AutoStartWork)
	v.Set("timer.presets", cfg.Timer.Presets)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("theme.color_work", cfg.Theme.ColorWork)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_task", cfg.Theme.ColorTask)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.work_gradient_start", cfg.Theme.WorkGradientStart)
	v.Set("theme.work_gradient_end", cfg.Theme.WorkGradientEnd)
	v.Set("theme.break_gradient_start", cfg.Theme.BreakGradientStart)
	v.Set("theme.break_gradient_end", cfg.Theme.BreakGradientEnd)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focus", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "focus.db")
}

// GetLogPath returns the log file path.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "focus.log")
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.work_duration", d.Timer.WorkDuration.String())
	v.SetDefault("timer.short_break", d.Timer.ShortBreak.String())
	v.SetDefault("timer.long_break", d.Timer.LongBreak.String())
	v.SetDefault("timer.long_break_interval", d.Timer.LongBreakInterval)
	v.SetDefault("timer.auto_start_breaks", false)
	v.SetDefault("timer.auto_start_work", false)
	v.SetDefault("timer.presets", d.Timer.Presets)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)
	v.SetDefault("storage.data_dir", defaultDataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("mcp.enabled", true)

	theme := DefaultThemeConfig()
	v.SetDefault("theme.color_work", theme.ColorWork)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_task", theme.ColorTask)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.work_gradient_start", theme.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", theme.WorkGradientEnd)
	v.SetDefault("theme.break_gradient_start", theme.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", theme.BreakGradientEnd)
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}

// TimerConfig converts the timer section to the engine configuration.
func (c *Config) TimerConfig() domain.TimerConfig {
	return domain.TimerConfig{
		WorkDuration:       time.Duration(c.Timer.WorkDuration),
		ShortBreakDuration: time.Duration(c.Timer.ShortBreak),
		LongBreakDuration:  time.Duration(c.Timer.LongBreak),
		LongBreakInterval:  c.Timer.LongBreakInterval,
		AutoStartBreaks:    c.Timer.AutoStartBreaks,
		AutoStartWork:      c.Timer.AutoStartWork,
	}
}

// Validate checks the timer section, presets and log level.
func (c *Config) Validate() error {
	if err := c.TimerConfig().Validate(); err != nil {
		return err
	}
	for _, p := range c.Timer.Presets {
		if p <= 0 {
			return fmt.Errorf("preset %d minutes: %w", p, domain.ErrInvalidDuration)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

type setter func(c *Config, value string) error

func durationSetter(field func(c *Config) *Duration) setter {
	return func(c *Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*field(c) = Duration(d)
		return nil
	}
}

func boolSetter(field func(c *Config) *bool) setter {
	return func(c *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		*field(c) = b
		return nil
	}
}

func stringSetter(field func(c *Config) *string) setter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

var setters = map[string]setter{
	"timer.work_duration": durationSetter(func(c *Config) *Duration { return &c.Timer.WorkDuration }),
	"timer.short_break":   durationSetter(func(c *Config) *Duration { return &c.Timer.ShortBreak }),
	"timer.long_break":    durationSetter(func(c *Config) *Duration { return &c.Timer.LongBreak }),
	"timer.long_break_interval": func(c *Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid interval %q", value)
		}
		c.Timer.LongBreakInterval = n
		return nil
	},
	"timer.auto_start_breaks": boolSetter(func(c *Config) *bool { return &c.Timer.AutoStartBreaks }),
	"timer.auto_start_work":   boolSetter(func(c *Config) *bool { return &c.Timer.AutoStartWork }),
	"timer.presets": func(c *Config, value string) error {
		var presets []int
		for _, part := range strings.Split(value, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("invalid preset %q", part)
			}
			presets = append(presets, n)
		}
		c.Timer.Presets = presets
		return nil
	},
	"notifications.enabled": boolSetter(func(c *Config) *bool { return &c.Notifications.Enabled }),
	"notifications.sound":   boolSetter(func(c *Config) *bool { return &c.Notifications.Sound }),
	"storage.data_dir":      stringSetter(func(c *Config) *string { return &c.Storage.DataDir }),
	"log.level":             stringSetter(func(c *Config) *string { return &c.Log.Level }),
	"log.file":              stringSetter(func(c *Config) *string { return &c.Log.File }),
	"mcp.enabled":           boolSetter(func(c *Config) *bool { return &c.MCP.Enabled }),
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set changes a single key. The config is left untouched if the result is invalid.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	next := *c
	next.Timer.Presets = append([]int(nil), c.Timer.Presets...)
	if err := set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
