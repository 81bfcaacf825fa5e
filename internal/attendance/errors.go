package attendance

import "errors"

// Error kinds the service reports. Callers match them with errors.Is;
// wrapped messages carry the detail.
var (
	// ErrInvalidArgument covers malformed dates, months and years,
	// rejected before any store access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation covers constraint violations on a single write,
	// such as an unknown status value or a malformed student id.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is a uniqueness violation the upsert could not
	// resolve. Non-fatal: the batch continues past it.
	ErrConflict = errors.New("conflict")

	// ErrStore is a transport or availability failure from the
	// persistence layer. The service does not retry.
	ErrStore = errors.New("store unavailable")
)
