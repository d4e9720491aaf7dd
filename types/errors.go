package types

import (
	"errors"
	"fmt"
)

// InputError means the result document could not be read, decoded or validated.
// Nothing is aggregated when it occurs.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid result document: %v", e.Err)
	}
	return fmt.Sprintf("invalid result document %s: %v", e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError
func NewInputError(path string, err error) *InputError {
	return &InputError{Path: path, Err: err}
}

// IsInputError checks if the error is or wraps an InputError
func IsInputError(err error) bool {
	var inputErr *InputError
	return err != nil && errors.As(err, &inputErr)
}

// AssetError means a template, stylesheet or script could not be located or read
type AssetError struct {
	Name string
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("report asset %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("report asset %s (%s): %v", e.Name, e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *AssetError) Unwrap() error {
	return e.Err
}

// NewAssetError creates a new AssetError
func NewAssetError(name, path string, err error) *AssetError {
	return &AssetError{Name: name, Path: path, Err: err}
}

// IsAssetError checks if the error is or wraps an AssetError
func IsAssetError(err error) bool {
	var assetErr *AssetError
	return err != nil && errors.As(err, &assetErr)
}

// AttachmentError is a failure to persist a single embedding. It never aborts a run.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("error saving screenshot %s: %v", e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// IsAttachmentError checks if the error is or wraps an AttachmentError
func IsAttachmentError(err error) bool {
	var attErr *AttachmentError
	return err != nil && errors.As(err, &attErr)
}
