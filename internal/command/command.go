package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandNotFound indicates the executable could not be located.
var ErrCommandNotFound = errors.New("releaser: command not found")

// NotFoundExitCode is the status reported for a missing executable, matching POSIX shells.
const NotFoundExitCode = 127

// Spec describes one external tool invocation.
type Spec struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds KEY=VALUE pairs added on top of the inherited environment.
	Env []string
}

// WithArgs returns a copy of s with extra appended to its arguments.
func (s Spec) WithArgs(extra ...string) Spec {
	args := make([]string, 0, len(s.Args)+len(extra))
	args = append(args, s.Args...)
	args = append(args, extra...)
	s.Args = args
	return s
}

// Argv returns the full argument vector including the executable.
func (s Spec) Argv() []string {
	return append([]string{s.Name}, s.Args...)
}

// String renders the literal command line with shell quoting where required.
func (s Spec) String() string {
	argv := s.Argv()
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}

// Quote single-quotes value unless it only contains shell-safe characters.
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	if strings.IndexFunc(value, needsQuoting) < 0 {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_@%+=:,./-", r):
		return false
	}
	return true
}

// ExitError reports a command that ran but did not succeed.
type ExitError struct {
	Spec Spec
	// Code is the process exit status; -1 when the process was killed by a signal.
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if errors.Is(e.Err, ErrCommandNotFound) {
		return fmt.Sprintf("%s: %v", e.Spec.Name, e.Err)
	}
	if e.Code < 0 {
		return fmt.Sprintf("%s: terminated: %v", e.Spec.Name, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Spec.Name, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }
