// Package mailer sends the admin notification email when a new
// application arrives. Missing SMTP credentials disable it silently; a
// send failure is the caller's to log, never to fail a submission over.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"selam/pkg/types"

	"github.com/wneessen/go-mail"
)

var typeLabels = map[string]string{
	types.ApplicationVolunteer: "Volunteer Application",
	types.ApplicationPartner:   "Partnership Request",
	types.ApplicationStory:     "Story Submission",
}

type Mailer struct {
	config *types.Config
}

func New(config *types.Config) *Mailer {
	return &Mailer{config: config}
}

func (m *Mailer) Configured() bool {
	return m.config.SMTPUser != "" && m.config.SMTPPass != ""
}

// NotifyApplication emails the admin about a new submission.
func (m *Mailer) NotifyApplication(ctx context.Context, app *types.Application) error {
	client, err := mail.NewClient(m.config.SMTPHost,
		mail.WithPort(int(m.config.SMTPPort)),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.SMTPUser),
		mail.WithPassword(m.config.SMTPPass),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	recipient := m.config.AdminEmail
	if recipient == "" {
		recipient = m.config.SMTPUser
	}

	label := typeLabels[app.Type]

	msg := mail.NewMsg()
	if err := msg.From(m.config.SMTPFrom); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("New %s - %s", label, app.Name))
	msg.SetBodyString(mail.TypeTextPlain, applicationBody(app, label))

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}

func applicationBody(app *types.Application, label string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New %s Received\n\n", label)
	fmt.Fprintf(&b, "Date: %s\n\n", app.CreatedAt.Format("2 Jan 2006 15:04 MST"))
	b.WriteString("Applicant Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", app.Name)
	fmt.Fprintf(&b, "- Email: %s\n", app.Email)
	phone := app.Phone
	if phone == "" {
		phone = "Not provided"
	}
	fmt.Fprintf(&b, "- Phone: %s\n", phone)
	fmt.Fprintf(&b, "- Type: %s\n", label)

	if app.Interest != "" {
		fmt.Fprintf(&b, "- Interest: %s\n", app.Interest)
	}
	if app.Skills != "" {
		fmt.Fprintf(&b, "- Skills: %s\n", app.Skills)
	}
	if app.Organization != "" {
		fmt.Fprintf(&b, "- Organization: %s\n", app.Organization)
	}
	if app.PartnershipType != "" {
		fmt.Fprintf(&b, "- Partnership Type: %s\n", app.PartnershipType)
	}
	if app.StoryType != "" {
		fmt.Fprintf(&b, "- Story Type: %s\n", app.StoryType)
	}
	if app.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", app.Message)
	}

	b.WriteString("\n---\nSELAM Website\nAutomated Notification\n")

	return b.String()
}
