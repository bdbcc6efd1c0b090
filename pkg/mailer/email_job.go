package mailer

import "time"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data, or Subject with Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_otp"
	Data     map[string]any `json:"data,omitempty"`

	// ExpiresAt, when set, is the moment after which the mail is pointless (an expired code).
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	// Attempts counts earlier failed sends of this job.
	Attempts int `json:"attempts,omitempty"`
}

// Expired reports whether the job's deadline has passed at now.
func (j EmailJob) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && !now.Before(*j.ExpiresAt)
}
