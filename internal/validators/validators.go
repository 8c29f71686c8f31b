package validators

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var timeSlotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):(00|30)$`)

// IsValidTimeSlot accepts HH:00 and HH:30 only.
func IsValidTimeSlot(value string) bool {
	return timeSlotPattern.MatchString(value)
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return IsValidTimeSlot(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Messages turns validator failures into one message per field. labels maps
// struct field names to the text shown to users.
func Messages(err error, labels map[string]string) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := labels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required", "notblank":
			out = append(out, label+" is required")
		case "min", "max", "gte", "lte":
			out = append(out, label+" is out of range")
		case "timeslot":
			out = append(out, label+" must be a :00 or :30 slot")
		default:
			out = append(out, label+" is invalid")
		}
	}
	return out
}

// FieldErrors is returned by Check when a struct fails validation.
type FieldErrors struct {
	Messages []string
}

func (e *FieldErrors) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Check validates s and converts failures into *FieldErrors.
func Check(v *validator.Validate, s any, labels map[string]string) error {
	if err := v.Struct(s); err != nil {
		return &FieldErrors{Messages: Messages(err, labels)}
	}
	return nil
}
