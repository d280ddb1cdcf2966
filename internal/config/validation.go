package config

import (
	"strings"

	"git.home.luguber.info/inful/releaser/internal/artifacts"
	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
)

// Validate checks that every step can be attempted. It does not check that
// the configured tools exist; a missing tool surfaces when its step runs.
func (c *Config) Validate() error {
	if err := artifacts.ValidatePath(c.Output.Directory); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid output.directory").
			Fatal().
			UserAction().
			WithContext(ferrors.ContextPath, c.Output.Directory).
			Build()
	}
	if err := validateCommand("build", c.Build); err != nil {
		return err
	}
	return validateCommand("publish", c.Publish)
}

func validateCommand(section string, cmd CommandConfig) error {
	if strings.TrimSpace(cmd.Command) == "" {
		return ferrors.ConfigError(section + ".command is required").
			WithStep(section).
			Build()
	}
	for key := range cmd.Env {
		if key == "" || strings.ContainsAny(key, "= \t") {
			return ferrors.ConfigError(section + ".env has an invalid variable name").
				WithStep(section).
				WithContext(ferrors.ContextVariable, key).
				Build()
		}
	}
	return nil
}
