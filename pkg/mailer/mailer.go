package mailer

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=pkgmocks github.com/Waypost/waypost/pkg/mailer Mailer

// Mailer sends operator alerts. Alerts are best-effort; callers log failures
// and continue.
type Mailer interface {
	// SendKillSwitchAlert notifies a workspace owner that campaigns were paused.
	SendKillSwitchAlert(email, workspaceName, reason string, pausedCampaignIDs []string) error
	// SendTokenExpiredAlert notifies the operator that the BSP system token was rejected.
	SendTokenExpiredAlert(email, workspaceName string) error
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: false,
	}
}

// NewTestSMTPMailer creates a new SMTP mailer in test mode (won't connect to SMTP server)
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: true,
	}
}

// SendKillSwitchAlert notifies a workspace owner that campaigns were paused.
func (m *SMTPMailer) SendKillSwitchAlert(email, workspaceName, reason string, pausedCampaignIDs []string) error {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}

	if err := msg.To(email); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}

	subject := fmt.Sprintf("Campaigns paused for %s", workspaceName)
	msg.Subject(subject)

	campaignList := "none"
	if len(pausedCampaignIDs) > 0 {
		campaignList = strings.Join(pausedCampaignIDs, ", ")
	}

	htmlBody := fmt.Sprintf(`
	<html>
		<body>
			<h1>Campaigns paused</h1>
			<p>Hello,</p>
			<p>Outbound campaigns for the workspace <strong>%s</strong> were automatically paused.</p>
			<p>Reason: <strong>%s</strong></p>
			<p>Paused campaigns: %s</p>
			<p>Sending will stay paused until the account health recovers and the campaigns are resumed manually.</p>
			<p>The Waypost Team</p>
		</body>
	</html>`, workspaceName, reason, campaignList)

	plainBody := fmt.Sprintf(
		"Hello,\n\nOutbound campaigns for the workspace %s were automatically paused.\n\n"+
			"Reason: %s\nPaused campaigns: %s\n\n"+
			"Sending will stay paused until the account health recovers and the campaigns are resumed manually.\n\n"+
			"The Waypost Team", workspaceName, reason, campaignList)

	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(mail.TypeTextPlain, plainBody)

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	// For testing - log information if client is nil
	if client == nil {
		log.Printf("Sending kill-switch alert to: %s", email)
		log.Printf("Subject: %s", subject)
		log.Printf("Reason: %s", reason)
		return nil
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send kill-switch alert: %w", err)
	}

	return nil
}

// SendTokenExpiredAlert notifies the operator that the BSP system token was rejected.
func (m *SMTPMailer) SendTokenExpiredAlert(email, workspaceName string) error {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}

	if err := msg.To(email); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}

	subject := "BSP system token rejected"
	msg.Subject(subject)

	htmlBody := fmt.Sprintf(`
	<html>
		<body>
			<h1>System token rejected</h1>
			<p>Hello,</p>
			<p>The provider rejected the BSP system token while sending for workspace <strong>%s</strong>.</p>
			<p>Outbound sends will fail until the token is rotated. Campaigns that hit the error were paused.</p>
			<p>The Waypost Team</p>
		</body>
	</html>`, workspaceName)

	plainBody := fmt.Sprintf(
		"Hello,\n\nThe provider rejected the BSP system token while sending for workspace %s.\n\n"+
			"Outbound sends will fail until the token is rotated. Campaigns that hit the error were paused.\n\n"+
			"The Waypost Team", workspaceName)

	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(mail.TypeTextPlain, plainBody)

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	if client == nil {
		log.Printf("Sending token-expired alert to: %s", email)
		log.Printf("Subject: %s", subject)
		return nil
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send token-expired alert: %w", err)
	}

	return nil
}

func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	// In test mode, return nil client to avoid SMTP connections
	if m.testMode {
		return nil, nil
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}

	// Only add authentication if username and password are provided.
	// This allows for unauthenticated SMTP servers (e.g., local relays, port 25)
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client, nil
}
