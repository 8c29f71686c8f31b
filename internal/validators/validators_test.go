package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTimeSlot(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "14:00", "23:30"} {
		assert.True(t, IsValidTimeSlot(ok), ok)
	}
	for _, bad := range []string{"", "9:00", "14:15", "24:00", "14:00:00", "ab:cd", "14:3"} {
		assert.False(t, IsValidTimeSlot(bad), bad)
	}
}

type sample struct {
	Name   string `validate:"notblank"`
	Rating int    `validate:"min=1,max=5"`
	Slot   string `validate:"timeslot"`
}

func TestMessages(t *testing.T) {
	v := New()
	err := v.Struct(sample{Name: "  ", Rating: 9, Slot: "10:15"})

	msgs := Messages(err, map[string]string{"Name": "Name", "Rating": "Rating", "Slot": "Time"})
	assert.Equal(t, []string{
		"Name is required",
		"Rating is out of range",
		"Time must be a :00 or :30 slot",
	}, msgs)

	assert.Nil(t, Messages(v.Struct(sample{Name: "Ann", Rating: 5, Slot: "10:30"}), nil))
}

func TestCheck(t *testing.T) {
	v := New()
	assert.NoError(t, Check(v, sample{Name: "Ann", Rating: 3, Slot: "10:30"}, nil))

	err := Check(v, sample{Name: "Ann", Rating: 0, Slot: "10:30"}, map[string]string{"Rating": "Rating"})
	var fe *FieldErrors
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Rating is out of range"}, fe.Messages)
}
