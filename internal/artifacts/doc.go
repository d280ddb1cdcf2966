// Package artifacts owns the release output directory (the artifact set).
//
// The directory is removed unconditionally at the start of every release so no
// artifact from a previous run can survive, populated by the external build tool,
// and enumerated (never modified) right before publishing. It is left on disk
// when the release finishes, successfully or not.
package artifacts
