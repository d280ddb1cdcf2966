package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyResult     = "result"
	KeyDurationMS = "duration_ms"
	KeyCommand    = "command"
	KeyOutputDir  = "output_dir"
	KeyArtifacts  = "artifacts"
	KeyExitCode   = "exit_code"
	KeyPath       = "path"
	KeyCommit     = "commit"
	KeyBranch     = "branch"
	KeyVersion    = "version"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Result(r string) slog.Attr       { return slog.String(KeyResult, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Command(line string) slog.Attr   { return slog.String(KeyCommand, line) }
func OutputDir(dir string) slog.Attr  { return slog.String(KeyOutputDir, dir) }
func Artifacts(n int) slog.Attr       { return slog.Int(KeyArtifacts, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Branch(name string) slog.Attr    { return slog.String(KeyBranch, name) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }

// Duration converts d to milliseconds.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
