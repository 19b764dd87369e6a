package mailer

// Template names understood by the worker.
const (
	TemplateConfirmEmail  = "confirm_email"
	TemplateResetPassword = "reset_password"
)

// EmailJob is the JSON payload put on the RabbitMQ queue. Template selects a
// rendered body; Subject/Text/HTML are used as-is when Template is empty.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
