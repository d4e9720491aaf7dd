// Package loader reads cucumber JSON result documents and validates them at the
// boundary so the aggregator only ever sees well-formed data.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum-optimism/infra/op-cukereport/schema"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// LoadFile reads and parses a result document from disk
func LoadFile(path string) (types.ResultDocument, error) {
	if path == "" {
		return nil, types.NewInputError(path, errors.New("no result document path configured"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewInputError(path, fmt.Errorf("unable to find cucumber json output file: %w", err))
	}
	doc, err := Parse(data)
	if err != nil {
		var inputErr *types.InputError
		if errors.As(err, &inputErr) {
			inputErr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse validates and decodes raw result document bytes
func Parse(data []byte) (types.ResultDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, types.NewInputError("", errors.New("result document is empty"))
	}
	if err := schema.ValidateResults(data); err != nil {
		return nil, types.NewInputError("", err)
	}

	var doc types.ResultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, types.NewInputError("", fmt.Errorf("unable to parse cucumber output into json: %w", err))
	}
	return doc, nil
}
