package httperr

import "errors"

const (
	CodeAppointmentNotFound = "appointment_not_found"
	CodeBarberNotFound      = "barber_not_found"
	CodeReviewNotFound      = "review_not_found"
	CodeInvalidState        = "invalid_state"
	CodeSlotAlreadyBooked   = "slot_already_booked"
	CodeInvalidCredentials  = "invalid_credentials"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsNotFound(err error) bool {
	return IsBusiness(err, CodeAppointmentNotFound) ||
		IsBusiness(err, CodeBarberNotFound) ||
		IsBusiness(err, CodeReviewNotFound)
}

// StoreError wraps an unexpected persistence failure. Callers show a generic
// retry message and log the wrapped error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func ErrStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
