package appointment

import "github.com/BruksfildServices01/barbershop-site/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ===============================
// Transitions
// ===============================

// CanConfirm allows re-confirming a confirmed appointment (the email is sent
// again) and reinstating a cancelled one before it is purged.
func CanConfirm(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
