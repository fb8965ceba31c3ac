package email

import (
	"adbridge/internal/core/domain/account"
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"
)

var passwordResetHTML = template.Must(template.New("password_reset").Parse(`<p>Hello {{.Name}},</p>
<p>Use the link below to choose a new AdBridge password. The link is valid for {{.ValidFor}}.</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>If you did not ask for a password reset, ignore this e-mail.</p>`))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	dialer               dialer
	sender               string
	passwordResetBaseURL url.URL
	validFor             string
}

func NewSMTPNotifier(
	host string,
	port int,
	username string,
	password string,
	sender string,
	passwordResetBaseURL url.URL,
	validFor string,
) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:               gomail.NewDialer(host, port, username, password),
		sender:               sender,
		passwordResetBaseURL: passwordResetBaseURL,
		validFor:             validFor,
	}
}

func (n *SMTPNotifier) SendPasswordResetLink(ctx context.Context, a account.Account, token account.ResetToken) error {
	link := PasswordResetLink(n.passwordResetBaseURL, token)

	var body bytes.Buffer
	err := passwordResetHTML.Execute(&body, struct {
		Name     string
		URL      string
		ValidFor string
	}{Name: a.Name, URL: link, ValidFor: n.validFor})
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", string(a.Email))
	msg.SetHeader("Subject", "Reset your AdBridge password")
	msg.SetBody("text/plain", fmt.Sprintf("Open %s to choose a new password. The link is valid for %s.", link, n.validFor))
	msg.AddAlternative("text/html", body.String())

	if err := ctx.Err(); err != nil {
		return err
	}
	return n.dialer.DialAndSend(msg)
}
