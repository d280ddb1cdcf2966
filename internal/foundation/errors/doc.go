// Package errors provides the classified error primitives used across releaser.
//
// Every failure the release pipeline can produce is a ClassifiedError carrying a
// category (config, environment, filesystem, build, publish, runtime), a severity,
// a retry hint for the operator and structured context such as the failing step
// and the subprocess exit status. CLIErrorAdapter turns those errors into the
// process exit code and the operator-facing message.
//
// Example usage:
//
//	err := errors.BuildError("build command failed").
//		WithStep("build").
//		WithExitCode(exitErr.Code).
//		WithCause(exitErr).
//		Build()
package errors
