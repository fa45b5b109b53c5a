package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminder(t *testing.T) {
	subject, body, err := Reminder(WateringReminder{
		PlantName:    "Monstera",
		IntervalDays: 7,
		ConfirmURL:   "http://localhost:3001/api/plants/abc/confirm",
	})
	require.NoError(t, err)

	assert.Contains(t, subject, "Monstera")
	assert.Contains(t, body, "every 7 days")
	assert.Contains(t, body, `href="http://localhost:3001/api/plants/abc/confirm"`)
}

func TestReminderEscapesPlantName(t *testing.T) {
	_, body, err := Reminder(WateringReminder{
		PlantName:    "<script>alert(1)</script>",
		IntervalDays: 1,
		ConfirmURL:   "http://localhost/confirm",
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "every 1 day.")
}
