package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateWelcome is the template name published by the sign-up handler.
const TemplateWelcome = "welcome"

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2933;">
    <h2>Welcome aboard, {{.FirstName}}!</h2>
    <p>Your account has been created successfully. Sign in and start
    organizing your tasks.</p>
    <p style="color: #7b8794; font-size: 12px;">If you did not create this
    account, you can safely ignore this email.</p>
  </body>
</html>`))

// NewWelcomeJob builds the queue payload for a post-registration email.
func NewWelcomeJob(to, firstName string) EmailJob {
	return EmailJob{
		To:       to,
		Template: TemplateWelcome,
		Data:     map[string]any{"FirstName": firstName},
	}
}

// Render resolves a job's template into subject, text, and HTML bodies.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if job.Template != TemplateWelcome {
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
	first, _ := job.Data["FirstName"].(string)
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, map[string]any{"FirstName": first}); err != nil {
		return "", "", "", err
	}
	subject = "Welcome to TaskDeck"
	text = fmt.Sprintf("Welcome aboard, %s! Your account has been created successfully.", first)
	return subject, text, buf.String(), nil
}
