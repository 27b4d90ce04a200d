package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	licenseExpiryJobTimeout = 2 * time.Minute
	licenseExpirySubject    = "[%s] %d software license(s) expiring within %d days"
)

// DigestSender delivers the license-expiry digest.
type DigestSender interface {
	SendDigest(ctx context.Context, recipients []string, subject, plain, htmlBody string) error
}

type sendgridDigestSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendgridDigestSender(apiKey, fromEmail string) DigestSender {
	return &sendgridDigestSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(utils.OrganizationName, fromEmail),
	}
}

func (s *sendgridDigestSender) SendDigest(ctx context.Context, recipients []string, subject, plain, htmlBody string) error {
	msg := mail.NewV3Mail()
	msg.SetFrom(s.from)
	msg.Subject = subject
	p := mail.NewPersonalization()
	for _, r := range recipients {
		p.AddTos(mail.NewEmail("", r))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/plain", plain), mail.NewContent("text/html", htmlBody))

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// logDigestSender writes the digest to the log when no mail provider is configured.
type logDigestSender struct{}

func NewLogDigestSender() DigestSender { return logDigestSender{} }

func (logDigestSender) SendDigest(_ context.Context, recipients []string, subject, plain, _ string) error {
	utils.Logger.WithField("recipients", recipients).Infof("%s\n%s", subject, plain)
	return nil
}

// LicenseExpiryNotifier reports licenses that expire within ExpiryWindow.
type LicenseExpiryNotifier struct {
	licenses   *SoftwareLicenseService
	sender     DigestSender
	recipients []string
}

func NewLicenseExpiryNotifier(licenses *SoftwareLicenseService, sender DigestSender, recipients []string) *LicenseExpiryNotifier {
	return &LicenseExpiryNotifier{licenses: licenses, sender: sender, recipients: recipients}
}

// Run sends one digest covering every license expiring within the window.
// It sends nothing when no license is about to expire.
func (n *LicenseExpiryNotifier) Run(ctx context.Context) (int, error) {
	expiring, err := n.licenses.GetLicensesExpiringWithin(ctx, ExpiryWindow)
	if err != nil {
		return 0, err
	}
	if len(expiring) == 0 {
		utils.Logger.Debug("No software licenses expiring soon")
		return 0, nil
	}
	subject, plain, htmlBody := renderExpiryDigest(expiring)
	if err := n.sender.SendDigest(ctx, n.recipients, subject, plain, htmlBody); err != nil {
		return 0, err
	}
	return len(expiring), nil
}

// Schedule registers Run on c with the given cron spec.
func (n *LicenseExpiryNotifier) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), licenseExpiryJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting license expiry cron job...")
		count, err := n.Run(ctx)
		if err != nil {
			utils.Logger.WithError(err).Error("License expiry notification failed")
			return
		}
		utils.Logger.Infof("License expiry cron job done, %d license(s) reported", count)
	})
	return err
}

func renderExpiryDigest(expiring []*models.SoftwareLicense) (subject, plain, htmlBody string) {
	subject = fmt.Sprintf(licenseExpirySubject, utils.OrganizationName, len(expiring), int(ExpiryWindow.Hours()/24))

	var pb, hb strings.Builder
	pb.WriteString("The following software licenses are about to expire:\n\n")
	hb.WriteString("<p>The following software licenses are about to expire:</p><ul>")
	for _, l := range expiring {
		day := l.ExpireDate.UTC().Format("2006-01-02")
		fmt.Fprintf(&pb, "- %s (id %d) expires %s\n", l.Name, l.ID, day)
		fmt.Fprintf(&hb, "<li><b>%s</b> (id %d) expires %s</li>", html.EscapeString(l.Name), l.ID, day)
	}
	hb.WriteString("</ul>")
	return subject, pb.String(), hb.String()
}
