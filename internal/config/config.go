package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/releaser/internal/command"
	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
	"git.home.luguber.info/inful/releaser/internal/logfields"
)

// Environment variables recognised by releaser itself. Publish tool credentials
// are never read here; they reach the tool through the inherited environment.
const (
	EnvOutputDir = "RELEASER_OUTPUT_DIR"
	EnvLogLevel  = "RELEASER_LOG_LEVEL"
)

// DefaultConfigFile is the configuration path used when --config is not given.
const DefaultConfigFile = "releaser.yaml"

// Config is the complete release configuration passed into the pipeline.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Build   CommandConfig `yaml:"build"`
	Publish CommandConfig `yaml:"publish"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// OutputConfig describes the artifact staging directory.
type OutputConfig struct {
	// Directory is resolved against releaser's working directory, never build.dir.
	Directory string `yaml:"directory"`
	// RequireArtifacts makes the release fail when the build leaves the directory
	// missing or empty instead of handing an empty list to the publish tool.
	RequireArtifacts bool `yaml:"require_artifacts"`
}

// CommandConfig describes one external tool invocation.
type CommandConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the configuration used when no file is present: a Python
// package built with `python -m build` and uploaded with `twine upload`.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Directory: "dist"},
		Build: CommandConfig{
			Command: "python",
			Args:    []string{"-m", "build"},
		},
		Publish: CommandConfig{
			Command: "twine",
			Args:    []string{"upload"},
		},
	}
}

// Load reads the YAML configuration at path. A missing file yields the defaults;
// any other read or decode problem is a configuration error. The output directory
// may be overridden with RELEASER_OUTPUT_DIR.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if dir := strings.TrimSpace(os.Getenv(EnvOutputDir)); dir != "" {
		slog.Debug("Output directory overridden by environment", logfields.OutputDir(dir))
		cfg.Output.Directory = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Configuration file not found, using defaults", logfields.Path(path))
		return Default(), nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext(ferrors.ContextPath, path).
			Build()
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
			Fatal().
			WithContext(ferrors.ContextPath, path).
			Build()
	}
	return &cfg, nil
}

// applyDefaults fills unset sections from Default. A command section counts as
// set once either its command or its arguments are given.
func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Output.Directory) == "" {
		c.Output.Directory = def.Output.Directory
	}
	if c.Build.Command == "" && len(c.Build.Args) == 0 {
		c.Build.Command, c.Build.Args = def.Build.Command, def.Build.Args
	}
	if c.Publish.Command == "" && len(c.Publish.Args) == 0 {
		c.Publish.Command, c.Publish.Args = def.Publish.Command, def.Publish.Args
	}
}

// Spec converts the command configuration into an executable spec. Env entries
// are emitted in key order so traces and tests are stable.
func (c CommandConfig) Spec() command.Spec {
	spec := command.Spec{
		Name: c.Command,
		Args: append([]string(nil), c.Args...),
		Dir:  c.Dir,
	}
	for _, key := range sortedKeys(c.Env) {
		spec.Env = append(spec.Env, key+"="+c.Env[key])
	}
	return spec
}
