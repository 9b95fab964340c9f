// Package errors provides standardized error handling for the enrichment run.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Structural errors: these abort the whole run.
	ErrCodeSpreadsheetReadFailed  ErrorCode = "SPREADSHEET_READ_FAILED"
	ErrCodeSpreadsheetWriteFailed ErrorCode = "SPREADSHEET_WRITE_FAILED"
	ErrCodeArchiveCorrupt         ErrorCode = "ARCHIVE_CORRUPT"
	ErrCodeVocabularyInvalid      ErrorCode = "VOCABULARY_INVALID"

	// Per-record errors: absorbed into the record's description field.
	ErrCodeCaptionFailed     ErrorCode = "CAPTION_FAILED"
	ErrCodeCaptionTimeout    ErrorCode = "CAPTION_TIMEOUT"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"

	// Degradable errors: logged, never fatal.
	ErrCodeCacheLoadFailed ErrorCode = "CACHE_LOAD_FAILED"
	ErrCodeCacheSaveFailed ErrorCode = "CACHE_SAVE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSpreadsheetReadFailedError creates a fatal workbook read error.
func NewSpreadsheetReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpreadsheetReadFailed,
		Message:   "Failed to read input workbook",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSpreadsheetWriteFailedError creates a fatal workbook write error.
func NewSpreadsheetWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpreadsheetWriteFailed,
		Message:   "Failed to write output workbook",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveCorruptError creates a fatal archive error.
func NewArchiveCorruptError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveCorrupt,
		Message:   "Photo archive could not be read",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVocabularyInvalidError creates a fatal tag-vocabulary error.
func NewVocabularyInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVocabularyInvalid,
		Message:   "Tag vocabulary file failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptionFailedError creates a retryable captioner error.
func NewCaptionFailedError(styleKey string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptionFailed,
		Message:   "Image captioning call failed",
		Details:   fmt.Sprintf("styleKey: %s, error: %s", styleKey, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptionTimeoutError creates a retryable captioner timeout error.
func NewCaptionTimeoutError(styleKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptionTimeout,
		Message:   "Image captioning call timed out",
		Details:   fmt.Sprintf("styleKey: %s", styleKey),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable text-generation error.
func NewGenerationFailedError(styleKey string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Description generation call failed",
		Details:   fmt.Sprintf("styleKey: %s, error: %s", styleKey, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheLoadFailedError creates a non-fatal cache read error. The run
// proceeds with an empty cache.
func NewCacheLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheLoadFailed,
		Message:   "Description cache could not be loaded, starting empty",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheSaveFailedError creates a cache persistence error. Descriptions
// already written to the workbook are unaffected; the next run regenerates.
func NewCacheSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheSaveFailed,
		Message:   "Description cache could not be persisted",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsFatal reports whether an error code aborts the whole run.
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrCodeSpreadsheetReadFailed,
		ErrCodeSpreadsheetWriteFailed,
		ErrCodeArchiveCorrupt,
		ErrCodeVocabularyInvalid:
		return true
	default:
		return false
	}
}
