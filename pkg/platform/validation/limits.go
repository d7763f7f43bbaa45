package validation

import (
	"fmt"

	dErrors "seacrew/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (16 MB).
	// Scan uploads carry base64 file data, so this is well above the
	// decoded file limit (base64 inflates by 4/3) plus JSON overhead.
	MaxBodySize = 16 << 20

	// MaxFileDataSize is the maximum decoded size of an uploaded
	// document file (10 MB). Anything larger is not a plausible
	// passport or certificate scan.
	MaxFileDataSize = 10 << 20
)

// String length limits
const (
	// MaxIDLength is the maximum length of an identifier field
	// (document, crew member, or contract ID). UUIDs are 36 chars;
	// this leaves headroom for prefixed external IDs.
	MaxIDLength = 64

	// MaxDateLength is the maximum length of a date field. A valid
	// value is always 10 chars (YYYY-MM-DD) but the check runs before
	// parsing, so oversized garbage is rejected cheaply.
	MaxDateLength = 32
)

// CheckBytesSize validates that a byte payload does not exceed the maximum size.
func CheckBytesSize(fieldName string, size, max int) error {
	if size > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max size of %d bytes", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
