package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var confirmEmailTmpl = template.Must(template.New(TemplateConfirmEmail).Parse(`
<p>Hi {{.Name}},</p>
<p>Welcome to Chirper. Confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Confirm email</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not sign up, ignore this message.</p>
`))

var resetPasswordTmpl = template.Must(template.New(TemplateResetPassword).Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not request this, ignore this message.</p>
`))

// Render produces subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var tmpl *template.Template
	switch name {
	case TemplateConfirmEmail:
		subject = "Confirm your email address"
		tmpl = confirmEmailTmpl
	case TemplateResetPassword:
		subject = "Reset your password"
		tmpl = resetPasswordTmpl
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	text = fmt.Sprintf("%v", data["Link"])
	return subject, text, buf.String(), nil
}
