package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		SMTPHost:  "localhost",
		SMTPPort:  1025,
		FromEmail: "alerts@waypost.dev",
		FromName:  "Waypost",
	}
}

func TestSendKillSwitchAlertTestMode(t *testing.T) {
	m := NewTestSMTPMailer(testConfig())

	err := m.SendKillSwitchAlert("owner@acme.test", "Acme", "QUALITY_DEGRADED", []string{"c1", "c2"})
	require.NoError(t, err)

	// empty campaign list is allowed
	err = m.SendKillSwitchAlert("owner@acme.test", "Acme", "ADMIN_TRIGGERED", nil)
	require.NoError(t, err)
}

func TestSendTokenExpiredAlertTestMode(t *testing.T) {
	m := NewTestSMTPMailer(testConfig())
	err := m.SendTokenExpiredAlert("ops@waypost.dev", "Acme")
	require.NoError(t, err)
}

func TestSendKillSwitchAlertInvalidRecipient(t *testing.T) {
	m := NewTestSMTPMailer(testConfig())
	err := m.SendKillSwitchAlert("not-an-email", "Acme", "QUALITY_DEGRADED", nil)
	assert.Error(t, err)
}

func TestCreateSMTPClientTestMode(t *testing.T) {
	m := NewTestSMTPMailer(testConfig())
	client, err := m.createSMTPClient()
	require.NoError(t, err)
	assert.Nil(t, client)
}
