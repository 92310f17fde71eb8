package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	texttemplate "text/template"
)

var ErrEmailRequired = errors.New("email is required")

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier e-mails the verification code through an SMTP relay.
type SMTPNotifier struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.User
	}

	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

var otpText = texttemplate.Must(texttemplate.New("otp_text").Parse(
	`{{.Greeting}}

{{.CodeLine}}

{{.Validity}}

{{.Ignore}}
`))

var otpHTML = template.Must(template.New("otp_html").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f7f7f7; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2>{{.Heading}}</h2>
      <p>{{.Greeting}}</p>
      <p>{{.Intro}}</p>
      <div style="background-color: #4CAF50; color: white; font-size: 24px; font-weight: bold; padding: 12px 24px; display: inline-block; border-radius: 4px; letter-spacing: 4px; margin: 20px 0;">{{.Code}}</div>
      <p>{{.Validity}}</p>
      <div style="margin-top: 20px; font-size: 12px; color: #666;">
        <p>{{.Ignore}}</p>
        <p>{{.NoReply}}</p>
      </div>
    </div>
  </body>
</html>
`))

func (n *SMTPNotifier) SendOTP(ctx context.Context, in SendOTPInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return ErrEmailRequired
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.buildMessage(in)
	if err != nil {
		return fmt.Errorf("build otp email: %w", err)
	}

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)

	// net/smtp has no context support; run it aside so a cancelled request is not held up.
	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, auth, n.cfg.From, []string{in.Email}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send otp email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *SMTPNotifier) buildMessage(in SendOTPInput) ([]byte, error) {
	view := localizeOTP(in)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := "From: " + n.cfg.From + "\r\n" +
		"To: " + in.Email + "\r\n" +
		"Subject: " + mime.QEncoding.Encode("utf-8", view.Subject) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n\r\n"

	var body bytes.Buffer
	body.WriteString(header)

	parts := []struct {
		contentType string
		render      func(*bytes.Buffer) error
	}{
		{"text/plain; charset=\"utf-8\"", func(b *bytes.Buffer) error { return otpText.Execute(b, view) }},
		{"text/html; charset=\"utf-8\"", func(b *bytes.Buffer) error { return otpHTML.Execute(b, view) }},
	}

	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}

		var rendered bytes.Buffer
		if err := p.render(&rendered); err != nil {
			return nil, err
		}

		if _, err := w.Write(rendered.Bytes()); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	body.Write(buf.Bytes())

	return body.Bytes(), nil
}
