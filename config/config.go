// Package config loads the toolbox YAML configuration.
package config

import (
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

type Config struct {
	Log       LogConfig              `yaml:"log"`
	Histogram HistogramConfig        `yaml:"histogram"`
	DDG       DDGConfig              `yaml:"ddg"`
	LinkedIn  LinkedInConfig         `yaml:"linkedin"`
	Cleaners  map[string][]CleanStep `yaml:"cleaners"` // 命名的清洗流水线
	Rules     []RuleSpec             `yaml:"rules"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type HistogramConfig struct {
	Bins             int     `yaml:"bins"`
	Symbol           string  `yaml:"symbol"`
	DensityPerSymbol float64 `yaml:"density_per_symbol"`
	LabelPlaces      int     `yaml:"label_places"`
	Degenerate       string  `yaml:"degenerate"` // reject / single_bin
}

type DDGConfig struct {
	BaseURL     string  `yaml:"base_url"`
	UserAgent   string  `yaml:"user_agent"`
	Region      string  `yaml:"region"`
	WaitMinSecs float64 `yaml:"wait_min_secs"`
	WaitMaxSecs float64 `yaml:"wait_max_secs"`
	TimeoutSecs float64 `yaml:"timeout_secs"`
}

type LinkedInConfig struct {
	Headless          bool    `yaml:"headless"`
	PauseSecs         float64 `yaml:"pause_secs"`
	VerifyPopupClosed bool    `yaml:"verify_popup_closed"`
	FindTimeoutSecs   float64 `yaml:"find_timeout_secs"` // 查找关闭按钮的超时
	Workers           int     `yaml:"workers"`
}

type CleanStep struct {
	Op             string   `yaml:"op"`
	Words          []string `yaml:"words"`
	WordBoundaries bool     `yaml:"word_boundaries"`
}

type RuleSpec struct {
	Pattern string             `yaml:"pattern"`
	Scores  map[string]float64 `yaml:"scores"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text", MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 28},
		Histogram: HistogramConfig{
			Bins:             50,
			Symbol:           "|",
			DensityPerSymbol: 0.005,
			LabelPlaces:      2,
			Degenerate:       "reject",
		},
		DDG: DDGConfig{
			BaseURL:     "https://lite.duckduckgo.com/lite/",
			UserAgent:   "Joe's Giant Toolbox",
			WaitMinSecs: 2,
			WaitMaxSecs: 4,
			TimeoutSecs: 30,
		},
		LinkedIn: LinkedInConfig{
			Headless:          true,
			PauseSecs:         5,
			VerifyPopupClosed: true,
			FindTimeoutSecs:   30,
			Workers:           1,
		},
		Cleaners: map[string][]CleanStep{},
	}
}

// 用 atomic.Value 存当前配置，无锁读取
var cfgValue atomic.Value // stores *Config

// Load 读取 yaml，未填写的字段保留默认值
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read yaml")
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.INVALID_VALUE, "%v", err), "unmarshal yaml")
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// 规范化并校验
func (c *Config) normalize() error {
	c.Histogram.Degenerate = strings.ToLower(strings.TrimSpace(c.Histogram.Degenerate))
	c.DDG.Region = strings.ToLower(strings.TrimSpace(c.DDG.Region))
	if c.Cleaners == nil {
		c.Cleaners = make(map[string][]CleanStep)
	}

	h := c.Histogram
	if h.Bins < 1 {
		return errorx.Newf(errCode.INVALID_VALUE, "histogram.bins must be >= 1: %d", h.Bins)
	}
	if h.LabelPlaces < 1 {
		return errorx.Newf(errCode.INVALID_VALUE, "histogram.label_places must be >= 1: %d", h.LabelPlaces)
	}
	if h.DensityPerSymbol <= 0 {
		return errorx.Newf(errCode.INVALID_VALUE, "histogram.density_per_symbol must be > 0: %v", h.DensityPerSymbol)
	}
	if h.Symbol == "" {
		return errorx.New(errCode.INVALID_VALUE, "histogram.symbol is empty")
	}
	if h.Degenerate != "reject" && h.Degenerate != "single_bin" {
		return errorx.Newf(errCode.INVALID_VALUE, "histogram.degenerate must be reject or single_bin: %q", h.Degenerate)
	}

	d := c.DDG
	if d.WaitMinSecs < 0 || d.WaitMaxSecs < d.WaitMinSecs {
		return errorx.Newf(errCode.INVALID_VALUE, "invalid ddg wait range [%v, %v]", d.WaitMinSecs, d.WaitMaxSecs)
	}
	if d.TimeoutSecs <= 0 {
		return errorx.Newf(errCode.INVALID_VALUE, "ddg.timeout_secs must be > 0: %v", d.TimeoutSecs)
	}

	if c.LinkedIn.PauseSecs < 0 {
		return errorx.Newf(errCode.INVALID_VALUE, "linkedin.pause_secs must be >= 0: %v", c.LinkedIn.PauseSecs)
	}
	if c.LinkedIn.FindTimeoutSecs <= 0 {
		return errorx.Newf(errCode.INVALID_VALUE, "linkedin.find_timeout_secs must be > 0: %v", c.LinkedIn.FindTimeoutSecs)
	}
	if c.LinkedIn.Workers < 1 {
		c.LinkedIn.Workers = 1
	}

	norm := make(map[string][]CleanStep, len(c.Cleaners))
	for name, steps := range c.Cleaners {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(steps) == 0 {
			return errorx.Newf(errCode.INVALID_VALUE, "cleaner %s has no steps", key)
		}
		norm[key] = steps
	}
	c.Cleaners = norm

	for i, r := range c.Rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return errorx.Newf(errCode.INVALID_VALUE, "rule %d has an empty pattern", i)
		}
	}
	return nil
}

func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	cfgValue.Store(c)
	return nil
}

// Get 返回当前配置，未 Init 时返回默认配置
func Get() *Config {
	cAny := cfgValue.Load()
	if cAny == nil {
		return Default()
	}
	return cAny.(*Config)
}

// Cleaner O(1) 查找命名流水线
func (c *Config) Cleaner(name string) ([]CleanStep, bool) {
	steps, ok := c.Cleaners[strings.ToLower(strings.TrimSpace(name))]
	return steps, ok
}
