package cukereport

import (
	"errors"
	"fmt"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// RuntimeError represents an operational error that should lead to exit code 2
// Examples include configuration errors, unreadable result documents and missing templates.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// TestFailureError signals a report that contains failures (exit code 1). The
// counts are the report's top-level totals, which are scenarios rather than
// features when the suite is reported as scenarios.
type TestFailureError struct {
	Passed int
	Failed int
	Unit   string // "features" or "scenarios"
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %d of %d %s failed", e.Failed, e.Passed+e.Failed, e.Unit)
}

// NewTestFailureError creates a TestFailureError from the top-level totals of a suite
func NewTestFailureError(suite *types.Suite, asScenarios bool) *TestFailureError {
	unit := "features"
	if asScenarios {
		unit = "scenarios"
	}
	return &TestFailureError{Passed: suite.Passed, Failed: suite.Failed, Unit: unit}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
