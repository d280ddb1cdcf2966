// Package command runs the external tools the release delegates to.
//
// Every invocation is traced before it starts (`+ cmd args...`, the same shape a
// shell prints under `set -x`) and its stdout/stderr are connected straight to
// the operator's streams, so tool diagnostics are shown verbatim as they happen.
package command
