package util

import (
	"errors"
	"fmt"
)

// MigrationError standardizes application errors.
type MigrationError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *MigrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// NewMigrationError constructs a MigrationError.
func NewMigrationError(code, message string, details map[string]any) *MigrationError {
	return &MigrationError{Code: code, Message: message, Details: details}
}

// NewConfigError marks a fatal configuration problem; the run never starts.
func NewConfigError(message string, details map[string]any) error {
	return NewMigrationError("CONFIG_INVALID", message, details)
}

// NewExportEmptyError signals that no ticket files were discovered.
func NewExportEmptyError(directory string) error {
	return &MigrationError{
		Code:    "EXPORT_EMPTY",
		Message: "no ticket records found in export directory",
		Details: map[string]any{"directory": directory},
	}
}

// NewIngestError wraps a parse or validation failure for one ticket file.
func NewIngestError(path string, err error) error {
	return &MigrationError{
		Code:    "INGEST_FAILED",
		Message: fmt.Sprintf("failed to ingest %s", path),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewUploadError wraps a storage upload failure for one attachment.
func NewUploadError(filename string, err error) error {
	return &MigrationError{
		Code:    "UPLOAD_FAILED",
		Message: fmt.Sprintf("failed to upload %s", filename),
		Details: map[string]any{"filename": filename},
		Err:     err,
	}
}

// NewResultWriteError wraps a failure writing the output document.
func NewResultWriteError(path string, err error) error {
	return &MigrationError{
		Code:    "RESULT_WRITE_FAILED",
		Message: fmt.Sprintf("failed to write result document %s", path),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// ToMigrationError converts generic errors to MigrationError.
func ToMigrationError(err error) *MigrationError {
	if err == nil {
		return nil
	}
	var migErr *MigrationError
	if errors.As(err, &migErr) {
		return migErr
	}
	return &MigrationError{
		Code:    "INTERNAL_ERROR",
		Message: "internal error",
		Err:     err,
	}
}

// ErrorCode extracts the code from an error chain, empty when absent.
func ErrorCode(err error) string {
	var migErr *MigrationError
	if errors.As(err, &migErr) {
		return migErr.Code
	}
	return ""
}
