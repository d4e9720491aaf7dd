package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	cukereport "github.com/ethereum-optimism/infra/op-cukereport"
	"github.com/ethereum-optimism/infra/op-cukereport/exitcodes"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: exitcodes.Success},
		{name: "failures", err: cukereport.NewTestFailureError(&types.Suite{Failed: 1}, false), want: exitcodes.TestFailure},
		{name: "runtime", err: cukereport.NewRuntimeError(errors.New("boom")), want: exitcodes.RuntimeErr},
		{name: "wrapped input", err: fmt.Errorf("load: %w", types.NewInputError("x.json", errors.New("bad"))), want: exitcodes.RuntimeErr},
		{name: "asset", err: types.NewAssetError("index.tmpl", "bundled", errors.New("missing")), want: exitcodes.RuntimeErr},
		{name: "other", err: errors.New("unknown"), want: exitcodes.TestFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, "op-cukereport", app.Name)
	assert.NotNil(t, app.Action)
	assert.NotNil(t, app.Command("serve"))
}
