package config

import (
	"os"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
)

// LookupFunc resolves an environment variable; os.LookupEnv is the production lookup.
type LookupFunc func(key string) (string, bool)

// Resolve returns a copy of c with every $VAR / ${VAR} reference expanded.
// Referencing an unset variable is an environment error, mirroring `set -u`.
// ${VAR:-default} substitutes default when VAR is unset or empty and $$ yields
// a literal dollar sign. Shell parameters such as $@ or $1 pass through as ${@}
// and ${1}; shell variables ($f) must still be written $$f.
func (c *Config) Resolve(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	e := &expander{lookup: lookup}

	out := &Config{
		Output: OutputConfig{
			Directory:        e.expand("output.directory", c.Output.Directory),
			RequireArtifacts: c.Output.RequireArtifacts,
		},
		Build:   e.expandCommand("build", c.Build),
		Publish: e.expandCommand("publish", c.Publish),
		Metrics: MetricsConfig{Textfile: e.expand("metrics.textfile", c.Metrics.Textfile)},
	}
	if e.err != nil {
		return nil, e.err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

type expander struct {
	lookup LookupFunc
	err    error
}

func (e *expander) expandCommand(section string, cmd CommandConfig) CommandConfig {
	out := CommandConfig{
		Command: e.expand(section+".command", cmd.Command),
		Dir:     e.expand(section+".dir", cmd.Dir),
	}
	if cmd.Args != nil {
		out.Args = make([]string, len(cmd.Args))
		for i, a := range cmd.Args {
			out.Args[i] = e.expand(section+".args", a)
		}
	}
	if cmd.Env != nil {
		out.Env = make(map[string]string, len(cmd.Env))
		for k, v := range cmd.Env {
			out.Env[k] = e.expand(section+".env."+k, v)
		}
	}
	return out
}

// isShellParameter reports the positional and special parameters ($1, $@, $#,
// ...) that only mean something to a shell the tool itself starts. They are
// left for that shell instead of being looked up.
func isShellParameter(name string) bool {
	if name == "" {
		return false
	}
	if len(name) == 1 && strings.ContainsRune("@*#?!-", rune(name[0])) {
		return true
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// expand keeps the first error only; later fields still expand but their result is discarded.
func (e *expander) expand(field, s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(name string) string {
		if name == "$" {
			return "$"
		}
		if isShellParameter(name) {
			return "${" + name + "}"
		}
		key, fallback, hasDefault := strings.Cut(name, ":-")
		value, ok := e.lookup(key)
		if hasDefault && value == "" {
			return fallback
		}
		if !ok {
			if e.err == nil {
				e.err = ferrors.EnvironmentError("required environment variable is not set: "+key).
					WithContext(ferrors.ContextVariable, key).
					WithContext("field", field).
					Build()
			}
			return ""
		}
		return value
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
