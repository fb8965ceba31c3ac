package email

import (
	"adbridge/internal/core/domain/account"
	"adbridge/internal/core/domain/logging"
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

var testAccount = account.Account{ID: "acc-1", Email: "a@x.com", Name: "Sahara Ads"}

func baseURL(t *testing.T) url.URL {
	u, err := url.Parse("https://adbridge.dz/reset-password")
	require.NoError(t, err)
	return *u
}

func TestPasswordResetLink(t *testing.T) {
	require.Equal(
		t,
		"https://adbridge.dz/reset-password/abc123",
		PasswordResetLink(baseURL(t), "abc123"),
	)
}

type fakeSES struct {
	input *ses.SendTemplatedEmailInput
	err   error
}

func (f *fakeSES) SendTemplatedEmail(
	ctx context.Context,
	params *ses.SendTemplatedEmailInput,
	optFns ...func(*ses.Options),
) (*ses.SendTemplatedEmailOutput, error) {
	f.input = params
	return &ses.SendTemplatedEmailOutput{}, f.err
}

func TestSESNotifier(t *testing.T) {
	client := &fakeSES{}
	n := &SESNotifier{
		ses:                   client,
		sender:                "noreply@adbridge.dz",
		passwordResetTemplate: "password-reset",
		passwordResetBaseURL:  baseURL(t),
	}

	err := n.SendPasswordResetLink(context.Background(), testAccount, "abc123")

	require.NoError(t, err)
	require.Equal(t, []string{"a@x.com"}, client.input.Destination.ToAddresses)
	require.Equal(t, "password-reset", *client.input.Template)
	require.JSONEq(
		t,
		`{"name": "Sahara Ads", "passwordResetUrl": "https://adbridge.dz/reset-password/abc123"}`,
		*client.input.TemplateData,
	)
}

func TestSESNotifierError(t *testing.T) {
	n := &SESNotifier{ses: &fakeSES{err: errors.New("throttled")}, passwordResetBaseURL: baseURL(t)}

	err := n.SendPasswordResetLink(context.Background(), testAccount, "abc123")

	require.Error(t, err)
}

type fakeDialer struct {
	sent []*gomail.Message
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return nil
}

func TestSMTPNotifier(t *testing.T) {
	d := &fakeDialer{}
	n := &SMTPNotifier{
		dialer:               d,
		sender:               "noreply@adbridge.dz",
		passwordResetBaseURL: baseURL(t),
		validFor:             "10 minutes",
	}

	err := n.SendPasswordResetLink(context.Background(), testAccount, "abc123")

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	require.Equal(t, []string{"a@x.com"}, d.sent[0].GetHeader("To"))

	var raw bytes.Buffer
	_, err = d.sent[0].WriteTo(&raw)
	require.NoError(t, err)
	require.True(t, strings.Contains(raw.String(), "https://adbridge.dz/reset-password/abc123"))
}

func TestSMTPNotifierCancelled(t *testing.T) {
	d := &fakeDialer{}
	n := &SMTPNotifier{dialer: d, passwordResetBaseURL: baseURL(t)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.SendPasswordResetLink(ctx, testAccount, "abc123")

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, d.sent)
}

func TestLogNotifier(t *testing.T) {
	log := logging.NewFakeLogger()
	n := NewLogNotifier(log, baseURL(t))

	err := n.SendPasswordResetLink(context.Background(), testAccount, "abc123")

	require.NoError(t, err)
	require.Contains(t, log.Values(), "https://adbridge.dz/reset-password/abc123")
	require.Len(t, log.Logged, 1)
	require.Equal(t, logging.WARNING, log.Logged[0].Level)
}
