package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// renderConfig is the render command's configuration. A YAML file sets
// the baseline and explicitly passed flags override it.
type renderConfig struct {
	Backend  string `yaml:"backend"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Out      string `yaml:"out"`
	Scale    int    `yaml:"scale"`
	LogLevel string `yaml:"log_level"`
}

func defaultRenderConfig() renderConfig {
	return renderConfig{
		Width:    300,
		Height:   150,
		Out:      "out.png",
		Scale:    1,
		LogLevel: "info",
	}
}

// Prevent reading absurd files by mistake.
const maxConfigSize = 1 << 20

// maxOutputSide bounds each side of the written image after scaling.
const maxOutputSide = 16384

// loadRenderConfig reads path over the defaults. Unknown keys are errors.
func loadRenderConfig(path string) (renderConfig, error) {
	cfg := defaultRenderConfig()
	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config: %s is larger than %d bytes", path, maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags copies the flags the user set on cmd into cfg.
func (cfg *renderConfig) applyFlags(cmd *cobra.Command, f renderConfig) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = f.Backend
	}
	if flags.Changed("width") {
		cfg.Width = f.Width
	}
	if flags.Changed("height") {
		cfg.Height = f.Height
	}
	if flags.Changed("out") {
		cfg.Out = f.Out
	}
	if flags.Changed("scale") {
		cfg.Scale = f.Scale
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
}

func (cfg renderConfig) validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("config: size %dx%d must be positive", cfg.Width, cfg.Height)
	case cfg.Scale < 1:
		return fmt.Errorf("config: scale %d must be at least 1", cfg.Scale)
	case cfg.Width > maxOutputSide/cfg.Scale || cfg.Height > maxOutputSide/cfg.Scale:
		return fmt.Errorf("config: %dx%d at scale %d exceeds %d pixels per side",
			cfg.Width, cfg.Height, cfg.Scale, maxOutputSide)
	case cfg.Out == "":
		return errors.New("config: no output path")
	}
	return nil
}
