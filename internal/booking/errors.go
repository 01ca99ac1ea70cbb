package booking

import "errors"

var (
	// ErrIncompleteSelection is returned by Confirm when doctor, date or
	// time is missing.
	ErrIncompleteSelection = errors.New("booking: selection is incomplete")
	// ErrDoctorRequired is returned when a step needs a doctor chosen first.
	ErrDoctorRequired = errors.New("booking: select a doctor first")
	// ErrInvalidStep is returned for unknown steps or illegal transitions.
	ErrInvalidStep = errors.New("booking: invalid wizard step")
	// ErrUnknownType is returned for an appointment type not in the catalog.
	ErrUnknownType = errors.New("booking: unknown appointment type")
	// ErrSlotUnavailable is returned when the chosen slot is not in the
	// bookable grid or is already taken.
	ErrSlotUnavailable = errors.New("booking: slot is not available")
)
