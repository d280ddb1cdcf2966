// Package release runs the release pipeline: clean the output directory, run
// the build tool, then run the publish tool on every artifact the build left
// behind. Steps run strictly in order and the first failure aborts the run.
package release
