// Package config loads shirtsort settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
)

// EnvPrefix is prepended to environment variable names, e.g.
// SHIRTSORT_CLASSIFIER_BACKEND.
const EnvPrefix = "SHIRTSORT"

// Configuration keys.
const (
	KeyThreshold        = "threshold"
	KeyWorkers          = "workers"
	KeySampleSize       = "sample-size"
	KeyMaxImageBytes    = "max-image-bytes"
	KeyOrder            = "order"
	KeyAllowPrivateURLs = "allow-private-urls"

	KeyClassifierBackend     = "classifier.backend"
	KeyClassifierModel       = "classifier.model"
	KeyClassifierGenAI       = "classifier.genai-backend"
	KeyClassifierPlugin      = "classifier.plugin"
	KeyClassifierTimeout     = "classifier.timeout"
	KeyClassifierInitTimeout = "classifier.init-timeout"
)

// Defaults.
const (
	DefaultThreshold  = 40.0
	DefaultWorkers    = 1
	DefaultSampleSize = 200
	MaxWorkers        = 64
)

// ClassifierConfig selects the optional label-based override.
type ClassifierConfig struct {
	Backend      string        `yaml:"backend"`
	Model        string        `yaml:"model"`
	GenAIBackend string        `yaml:"genai-backend"`
	Plugin       string        `yaml:"plugin"`
	Timeout      time.Duration `yaml:"timeout"`
	InitTimeout  time.Duration `yaml:"init-timeout"`
}

// Config is the resolved configuration for one run.
type Config struct {
	Threshold        float64          `yaml:"threshold"`
	Workers          int              `yaml:"workers"`
	SampleSize       int              `yaml:"sample-size"`
	MaxImageBytes    int64            `yaml:"max-image-bytes"`
	Order            imgpkg.Order     `yaml:"order"`
	AllowPrivateURLs bool             `yaml:"allow-private-urls"`
	Classifier       ClassifierConfig `yaml:"classifier"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Threshold:     DefaultThreshold,
		Workers:       DefaultWorkers,
		SampleSize:    DefaultSampleSize,
		MaxImageBytes: imgpkg.DefaultMaxBytes,
		Order:         imgpkg.OrderInput,
		Classifier: ClassifierConfig{
			Backend:      classifier.BackendNone,
			Model:        classifier.DefaultGeminiModel,
			GenAIBackend: classifier.BackendGeminiAPI,
			Timeout:      classifier.DefaultTimeout,
			InitTimeout:  classifier.DefaultInitTimeout,
		},
	}
}

// SetDefaults registers the built-in values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyThreshold, d.Threshold)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeySampleSize, d.SampleSize)
	v.SetDefault(KeyMaxImageBytes, d.MaxImageBytes)
	v.SetDefault(KeyOrder, string(d.Order))
	v.SetDefault(KeyAllowPrivateURLs, d.AllowPrivateURLs)
	v.SetDefault(KeyClassifierBackend, d.Classifier.Backend)
	v.SetDefault(KeyClassifierModel, d.Classifier.Model)
	v.SetDefault(KeyClassifierGenAI, d.Classifier.GenAIBackend)
	v.SetDefault(KeyClassifierPlugin, d.Classifier.Plugin)
	v.SetDefault(KeyClassifierTimeout, d.Classifier.Timeout)
	v.SetDefault(KeyClassifierInitTimeout, d.Classifier.InitTimeout)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// DefaultPath returns $XDG_CONFIG_HOME/shirtsort/config.yaml (or the platform
// equivalent), or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shirtsort", "config.yaml")
}

// ReadFile reads the config file into v. An explicit path must exist; the
// default path is optional.
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return nil
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}
	return nil
}

// Load resolves the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	order, err := imgpkg.ParseOrder(v.GetString(KeyOrder))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Threshold:        v.GetFloat64(KeyThreshold),
		Workers:          v.GetInt(KeyWorkers),
		SampleSize:       v.GetInt(KeySampleSize),
		MaxImageBytes:    v.GetInt64(KeyMaxImageBytes),
		Order:            order,
		AllowPrivateURLs: v.GetBool(KeyAllowPrivateURLs),
		Classifier: ClassifierConfig{
			Backend:      strings.ToLower(strings.TrimSpace(v.GetString(KeyClassifierBackend))),
			Model:        v.GetString(KeyClassifierModel),
			GenAIBackend: v.GetString(KeyClassifierGenAI),
			Plugin:       v.GetString(KeyClassifierPlugin),
			Timeout:      v.GetDuration(KeyClassifierTimeout),
			InitTimeout:  v.GetDuration(KeyClassifierInitTimeout),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", KeyThreshold, c.Threshold))
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d, got %d", KeyWorkers, MaxWorkers, c.Workers))
	}
	if c.SampleSize < 10 {
		errs = append(errs, fmt.Errorf("%s must be at least 10, got %d", KeySampleSize, c.SampleSize))
	}
	if c.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxImageBytes, c.MaxImageBytes))
	}
	if _, err := imgpkg.ParseOrder(string(c.Order)); err != nil {
		errs = append(errs, err)
	}

	cc := c.Classifier
	switch cc.Backend {
	case "", classifier.BackendNone:
	case classifier.BackendGemini:
		if cc.GenAIBackend != "" && cc.GenAIBackend != classifier.BackendGeminiAPI && cc.GenAIBackend != classifier.BackendVertexAI {
			errs = append(errs, fmt.Errorf("%s must be %s or %s, got %q", KeyClassifierGenAI, classifier.BackendGeminiAPI, classifier.BackendVertexAI, cc.GenAIBackend))
		}
	case classifier.BackendPlugin:
		if cc.Plugin == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %q", KeyClassifierPlugin, KeyClassifierBackend, classifier.BackendPlugin))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be one of %s, got %q", KeyClassifierBackend, strings.Join(classifier.Backends(), ", "), cc.Backend))
	}
	if cc.Timeout < 0 || cc.InitTimeout < 0 {
		errs = append(errs, fmt.Errorf("classifier timeouts must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ClassifierOptions converts the classifier settings for classifier.New.
func (c *Config) ClassifierOptions() classifier.Options {
	return classifier.Options{
		Backend:      c.Classifier.Backend,
		Model:        c.Classifier.Model,
		GenAIBackend: c.Classifier.GenAIBackend,
		PluginPath:   c.Classifier.Plugin,
		Timeout:      c.Classifier.Timeout,
		InitTimeout:  c.Classifier.InitTimeout,
	}
}

// SourceOptions converts the input settings for image.NewSources.
func (c *Config) SourceOptions() imgpkg.SourceOptions {
	return imgpkg.SourceOptions{
		MaxBytes:     c.MaxImageBytes,
		AllowPrivate: c.AllowPrivateURLs,
	}
}
