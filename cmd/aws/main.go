package main

import (
	"adbridge/internal/config"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	passwordResetSubject = "Reset your AdBridgeDz password"
	passwordResetHTML    = `<p>Hello {{name}},</p>
<p>Follow <a href="{{passwordResetUrl}}">this link</a> to choose a new password.
The link is valid for 10 minutes and can be used once.</p>
<p>If you did not ask for a password reset, ignore this e-mail.</p>`
	passwordResetText = `Hello {{name}},

Follow this link to choose a new password: {{passwordResetUrl}}
The link is valid for 10 minutes and can be used once.

If you did not ask for a password reset, ignore this e-mail.`
)

func main() {
	create := flag.Bool("create", false, "create the password reset template")
	remove := flag.Bool("delete", false, "delete the password reset template")
	sendTo := flag.String("send-to", "", "send a test e-mail with the password reset template")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		exit(err)
	}
	svc := ses.NewFromConfig(loadAwsConfig(cfg))
	name := cfg.AwsEmailPasswordResetTemplate

	switch {
	case *create:
		CreateEmailTemplate(svc, name, passwordResetSubject, passwordResetHTML, passwordResetText)
	case *remove:
		DeleteEmailTemplate(svc, name)
	case *sendTo != "":
		SendEmailTemplate(
			svc,
			cfg.EmailSender,
			*sendTo,
			name,
			`{"name": "Test", "passwordResetUrl": "https://example.com/reset/test"}`,
		)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func loadAwsConfig(cfg *config.Config) aws.Config {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		exit(err)
	}
	return awsCfg
}

func CreateEmailTemplate(
	svc *ses.Client,
	name string,
	subject string,
	htmlPart string,
	textPart string,
) {
	input := &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  &subject,
			HtmlPart:     &htmlPart,
			TextPart:     &textPart,
			TemplateName: &name,
		},
	}
	result, err := svc.CreateTemplate(context.Background(), input)
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func DeleteEmailTemplate(svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(
		context.Background(),
		&ses.DeleteTemplateInput{
			TemplateName: &name,
		},
	)
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

// SendEmailTemplate requires sender to be verified with Amazon SES.
func SendEmailTemplate(svc *ses.Client, sender string, to string, name string, args string) {
	result, err := svc.SendTemplatedEmail(
		context.Background(),
		&ses.SendTemplatedEmailInput{
			Source: aws.String(sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{to},
			},
			Template:     &name,
			TemplateData: &args,
		},
	)
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}
