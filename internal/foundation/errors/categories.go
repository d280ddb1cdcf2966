package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and exit code mapping.
type ErrorCategory string

const (
	// CategoryConfig represents invalid or unusable configuration.
	CategoryConfig ErrorCategory = "config"
	// CategoryEnvironment represents references to unset environment variables.
	CategoryEnvironment ErrorCategory = "environment"

	// CategoryFileSystem represents output directory failures (removal, listing).
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryBuild      ErrorCategory = "build"
	CategoryPublish    ErrorCategory = "publish"

	// CategoryRuntime represents interruption and process-level errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the release
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Reported, does not stop the release
)

// RetryStrategy indicates how an error should be handled by an operator.
// The release pipeline itself never retries.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never" // Permanent failure for this run
	RetryUserAction RetryStrategy = "user"  // Requires operator intervention before re-running
)

// Well-known context keys.
const (
	ContextStep     = "step"
	ContextExitCode = "exit_code"
	ContextPath     = "path"
	ContextCommand  = "command"
	ContextVariable = "variable"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// GetInt retrieves an int context value.
func (c ErrorContext) GetInt(key string) (int, bool) {
	if value, exists := c.Get(key); exists {
		if n, ok := value.(int); ok {
			return n, true
		}
	}
	return 0, false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
