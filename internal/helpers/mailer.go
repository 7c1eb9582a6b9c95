package helpers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPMailer sends transactional emails over authenticated SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

var (
	resetTemplate = template.Must(template.New("reset").Parse(`<html><body>
<h2>Password reset</h2>
<p>Hi {{.Name}},</p>
<p>Your password reset code is:</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>The code expires in {{.Minutes}} minutes. If you did not ask for it you can ignore this email.</p>
</body></html>`))

	welcomeTemplate = template.Must(template.New("welcome").Parse(`<html><body>
<h2>Welcome, {{.Name}}!</h2>
<p>Your account is ready. Add a few photos and interests so people can get to know you.</p>
</body></html>`))
)

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, code string, minutes int) error {
	data := map[string]any{"Name": name, "Code": code, "Minutes": minutes}
	text := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\n", name, code, minutes)
	return m.send(ctx, to, "Your password reset code", text, resetTemplate, data)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	data := map[string]any{"Name": name}
	text := fmt.Sprintf("Welcome, %s!\n\nYour account is ready.\n", name)
	return m.send(ctx, to, "Welcome to "+m.cfg.FromName, text, welcomeTemplate, data)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, text string, tmpl *template.Template, data any) error {
	var html bytes.Buffer
	if err := tmpl.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
