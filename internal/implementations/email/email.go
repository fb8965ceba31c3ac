package email

import (
	"adbridge/internal/core/domain/account"
	"adbridge/internal/core/domain/logging"
	"context"
	"encoding/json"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// PasswordResetLink embeds the clear token as the last path segment of baseURL.
func PasswordResetLink(baseURL url.URL, token account.ResetToken) string {
	return baseURL.JoinPath(string(token)).String()
}

type sesClient interface {
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
}

type SESNotifier struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	passwordResetBaseURL  url.URL
}

func NewSESNotifier(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseURL url.URL,
) *SESNotifier {
	return &SESNotifier{
		ses:                   ses.NewFromConfig(awsConfig),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseURL:  passwordResetBaseURL,
	}
}

func (s *SESNotifier) SendPasswordResetLink(ctx context.Context, a account.Account, token account.ResetToken) error {
	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			Name:             a.Name,
			PasswordResetURL: PasswordResetLink(s.passwordResetBaseURL, token),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(a.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	Name             string `json:"name"`
	PasswordResetURL string `json:"passwordResetUrl"`
}

// LogNotifier writes the reset link to the log instead of mailing it. The
// config only allows it in test or development mode.
type LogNotifier struct {
	log                  logging.Logger
	passwordResetBaseURL url.URL
}

func NewLogNotifier(log logging.Logger, passwordResetBaseURL url.URL) *LogNotifier {
	return &LogNotifier{log: log, passwordResetBaseURL: passwordResetBaseURL}
}

func (n *LogNotifier) SendPasswordResetLink(ctx context.Context, a account.Account, token account.ResetToken) error {
	n.log.Warning(
		ctx,
		"Password reset link is written to the log, do not use in production.",
		logging.Entry("accountId", a.ID),
		logging.Entry("link", PasswordResetLink(n.passwordResetBaseURL, token)),
	)
	return nil
}
