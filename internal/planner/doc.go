// Package planner handles the planning phase of a post-processing run.
//
// The planner deterministically maps an ordered list of setups to output
// file paths. Setup names are split on hyphens: every segment but the last
// names a nested output subfolder, the last is the base file name. Each
// distinct folder keeps its own sequence counter, starting at 1, assigned in
// the order setups appear.
//
// Key responsibilities:
//   - Derive the output folder and file name for each eligible setup
//   - Assign per-folder sequence numbers (optionally zero-padded)
//   - Skip suppressed and empty setups without consuming sequence numbers
package planner
