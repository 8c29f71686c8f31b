package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// Message is the user-facing text for an error code.
func Message(err error) string {
	var be BusinessError
	if !errors.As(err, &be) {
		return "Something went wrong. Please try again later."
	}
	switch be.Code {
	case CodeAppointmentNotFound:
		return "Appointment not found"
	case CodeBarberNotFound:
		return "Barber not found"
	case CodeReviewNotFound:
		return "Review not found"
	case CodeInvalidState:
		return "This action is not allowed for the appointment's current status"
	case CodeSlotAlreadyBooked:
		return "This time slot is already booked — please choose another"
	case CodeInvalidCredentials:
		return "Invalid email or password"
	default:
		return be.Code
	}
}
