package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// WateringReminder is the data rendered into the reminder email.
type WateringReminder struct {
	PlantName    string
	IntervalDays int
	ConfirmURL   string
}

var reminderHTML = template.Must(template.New("reminder").Parse(`<div style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hello!</h2>
  <p>Your plant <strong>{{.PlantName}}</strong> is thirsty.</p>
  <p>It needs water every {{.IntervalDays}} day{{if ne .IntervalDays 1}}s{{end}}.</p>
  <br/>
  <p>Already watered it? Click the button below to record it and restart the countdown:</p>
  <a href="{{.ConfirmURL}}" style="background-color: #16a34a; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">
    Confirm watering
  </a>
  <br/><br/>
  <p>Take good care of it! 🌱</p>
</div>
`))

// Reminder renders the subject and HTML body of a watering reminder.
func Reminder(r WateringReminder) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := reminderHTML.Execute(&buf, r); err != nil {
		return "", "", fmt.Errorf("render reminder: %w", err)
	}
	return fmt.Sprintf("Time to water your %s! 💧", r.PlantName), buf.String(), nil
}
