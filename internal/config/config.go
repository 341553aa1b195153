// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv         = "SKYCAST"
	DefaultTextTpl    = "{{.CityName}} {{floatFormat .Temperature 1}}°{{.TempUnit}}"
	DefaultTooltipTpl = "{{loc \"feelslike\"}}: {{floatFormat .FeelsLike 1}}°{{.TempUnit}}\n" +
		"{{loc \"humidity\"}}: {{.Humidity}}%\n{{loc \"uvindex\"}}: {{floatFormat .UVIndex 1}}\n" +
		"{{loc \"sunrise\"}}: {{.Sunrise}}\n{{loc \"sunset\"}}: {{.Sunset}}\n" +
		"{{loc \"moonphase\"}}: {{.MoonPhaseIcon}} {{loc .MoonPhase}}\n" +
		"{{loc \"updated\"}}: {{localizedTime .UpdatedAt}}"
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	API struct {
		// Key is the WeatherAPI.com API key. It is deliberately only ever
		// injected via config or environment, never compiled in.
		Key     string `fig:"key"`
		BaseURL string `fig:"base_url" default:"https://api.weatherapi.com/v1"`
	} `fig:"api"`

	Intervals struct {
		Refresh time.Duration `fig:"refresh" default:"15m"`
		Output  time.Duration `fig:"output" default:"30s"`
	} `fig:"intervals"`

	Templates struct {
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`

	State struct {
		// Dir is where the cache slot is persisted. An empty value after
		// validation means in-memory only.
		Dir string `fig:"dir"`
	} `fig:"state"`

	NetMon struct {
		DisableDBus bool `fig:"disable_dbus"`
		DisableWifi bool `fig:"disable_wifi"`
	} `fig:"netmon"`

	Location struct {
		EnableFile bool   `fig:"enable_file"`
		File       string `fig:"file"`
		EnableGPSD bool   `fig:"enable_gpsd"`
		GPSDHost   string `fig:"gpsd_host"`
		GPSDPort   string `fig:"gpsd_port"`
	} `fig:"location"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Intervals.Refresh < time.Minute {
		return fmt.Errorf("invalid refresh interval: %s", c.Intervals.Refresh)
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.State.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.State.Dir = filepath.Join(home, ".local", "state", "skycast")
		}
	}
	if c.Location.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Location.File = filepath.Join(home, ".config", "skycast", "location")
		}
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
