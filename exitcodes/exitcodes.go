// Package exitcodes defines the exit codes used by op-cukereport.
package exitcodes

// Exit code constants used by op-cukereport:
//
// * Success (0): the report was generated
// * TestFailure (1): the report was generated but contains failures and --fail-on-failures is set
// * RuntimeErr (2): the report could not be generated
const (
	Success     = 0 // Report generated
	TestFailure = 1 // Report has failures
	RuntimeErr  = 2 // Bad input, missing templates, unwritable output
)
