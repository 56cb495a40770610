package retrograde

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned (wrapped) by Extract.
var (
	ErrMalformed      = errors.New("malformed input")
	ErrMissingDates   = errors.New(`missing "dates" key`)
	ErrBadDate        = errors.New("invalid date")
	ErrNotBoolean     = errors.New("retrograde state is not a boolean")
	ErrTooManyBodies  = errors.New("too many celestial bodies")
	ErrMissingBody    = errors.New("record is missing a celestial body")
	ErrUnexpectedBody = errors.New("record has an unknown celestial body")
)

// SchemaError reports a record whose body names differ from the set
// established by the first record.
type SchemaError struct {
	Date       string
	Missing    []string
	Unexpected []string
}

// Error lists the missing and unexpected names for the offending date.
func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	return fmt.Sprintf("date %s: body set differs from first record: %s", e.Date, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrMissingBody and ErrUnexpectedBody.
func (e *SchemaError) Unwrap() []error {
	var errs []error
	if len(e.Missing) > 0 {
		errs = append(errs, ErrMissingBody)
	}
	if len(e.Unexpected) > 0 {
		errs = append(errs, ErrUnexpectedBody)
	}
	return errs
}
