package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Threshold != 40 || cfg.Workers != 1 || cfg.SampleSize != 200 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.Order != imgpkg.OrderInput {
		t.Errorf("Order = %q, want input", cfg.Order)
	}
	if cfg.MaxImageBytes != imgpkg.DefaultMaxBytes {
		t.Errorf("MaxImageBytes = %d, want %d", cfg.MaxImageBytes, imgpkg.DefaultMaxBytes)
	}
	if cfg.Classifier.Backend != classifier.BackendNone || cfg.Classifier.Timeout != 20*time.Second {
		t.Errorf("Classifier = %+v, want none with 20s timeout", cfg.Classifier)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SHIRTSORT_THRESHOLD", "25.5")
	t.Setenv("SHIRTSORT_WORKERS", "4")
	t.Setenv("SHIRTSORT_ORDER", "capture")
	t.Setenv("SHIRTSORT_CLASSIFIER_BACKEND", "plugin")
	t.Setenv("SHIRTSORT_CLASSIFIER_PLUGIN", "/opt/classify")
	t.Setenv("SHIRTSORT_CLASSIFIER_INIT_TIMEOUT", "2m")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Threshold != 25.5 || cfg.Workers != 4 || cfg.Order != imgpkg.OrderCapture {
		t.Errorf("Load() = %+v", cfg)
	}

	opts := cfg.ClassifierOptions()
	if opts.Backend != "plugin" || opts.PluginPath != "/opt/classify" || opts.InitTimeout != 2*time.Minute {
		t.Errorf("ClassifierOptions() = %+v", opts)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `threshold: 30
workers: 2
order: name
classifier:
  backend: gemini
  model: gemini-test
  genai-backend: vertex-ai
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Threshold != 30 || cfg.Workers != 2 || cfg.Order != imgpkg.OrderName {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Classifier.Backend != "gemini" || cfg.Classifier.Model != "gemini-test" ||
		cfg.Classifier.GenAIBackend != "vertex-ai" || cfg.Classifier.Timeout != 5*time.Second {
		t.Errorf("Classifier = %+v", cfg.Classifier)
	}

	if err := ReadFile(New(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("ReadFile() of explicit missing file expected error")
	}
}

func TestReadFileDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if err := ReadFile(New(), ""); err != nil {
		t.Errorf("ReadFile() without a default file error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, "threshold"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"too many workers", func(c *Config) { c.Workers = MaxWorkers + 1 }, "workers"},
		{"tiny sample", func(c *Config) { c.SampleSize = 4 }, "sample-size"},
		{"bad order", func(c *Config) { c.Order = "random" }, "order"},
		{"unknown backend", func(c *Config) { c.Classifier.Backend = "oracle" }, "classifier.backend"},
		{"plugin without path", func(c *Config) { c.Classifier.Backend = "plugin" }, "classifier.plugin"},
		{"bad genai backend", func(c *Config) {
			c.Classifier.Backend = "gemini"
			c.Classifier.GenAIBackend = "azure"
		}, "classifier.genai-backend"},
		{"negative timeout", func(c *Config) { c.Classifier.Timeout = -time.Second }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
