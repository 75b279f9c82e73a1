package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusForwardPath(t *testing.T) {
	now := time.Now().UTC()
	m := &Message{Status: MessageStatusSent}

	require.True(t, m.ApplyStatus(MessageStatusDelivered, now, ""))
	assert.Equal(t, MessageStatusDelivered, m.Status)
	require.NotNil(t, m.DeliveredAt)
	assert.Equal(t, now, *m.DeliveredAt)

	require.True(t, m.ApplyStatus(MessageStatusRead, now.Add(time.Second), ""))
	assert.Equal(t, MessageStatusRead, m.Status)
	assert.Len(t, m.StatusHistory, 2)
}

func TestApplyStatusOutOfOrderKeepsStatus(t *testing.T) {
	now := time.Now().UTC()
	m := &Message{Status: MessageStatusRead}

	// A late "delivered" must not move the status backwards but still fills
	// the missing timestamp.
	changed := m.ApplyStatus(MessageStatusDelivered, now, "")
	assert.True(t, changed)
	assert.Equal(t, MessageStatusRead, m.Status)
	require.NotNil(t, m.DeliveredAt)

	// Replaying it again has nothing left to do.
	assert.False(t, m.ApplyStatus(MessageStatusDelivered, now, ""))
}

func TestApplyStatusRepeatIsNoOp(t *testing.T) {
	now := time.Now().UTC()
	m := &Message{Status: MessageStatusSent}
	require.True(t, m.ApplyStatus(MessageStatusDelivered, now, ""))

	assert.False(t, m.ApplyStatus(MessageStatusDelivered, now.Add(time.Minute), ""))
	assert.Equal(t, now, *m.DeliveredAt)
}

func TestApplyStatusFailedIsTerminal(t *testing.T) {
	now := time.Now().UTC()
	m := &Message{Status: MessageStatusSent}

	require.True(t, m.ApplyStatus(MessageStatusFailed, now, "structure unavailable"))
	assert.Equal(t, MessageStatusFailed, m.Status)
	assert.Equal(t, "structure unavailable", m.FailureReason)
	require.NotNil(t, m.FailedAt)

	// Nothing moves a failed message, not even a later delivered receipt.
	assert.False(t, m.ApplyStatus(MessageStatusDelivered, now.Add(time.Minute), ""))
	assert.False(t, m.ApplyStatus(MessageStatusFailed, now.Add(time.Minute), "again"))
	assert.Equal(t, MessageStatusFailed, m.Status)
	assert.Len(t, m.StatusHistory, 1)
}

func TestApplyStatusTimestampFirstWriteWins(t *testing.T) {
	first := time.Now().UTC()
	m := &Message{Status: MessageStatusQueued}

	require.True(t, m.ApplyStatus(MessageStatusSent, first, ""))
	require.True(t, m.ApplyStatus(MessageStatusDelivered, first.Add(time.Second), ""))

	assert.Equal(t, first, *m.SentAt)
	assert.Equal(t, first.Add(time.Second), *m.DeliveredAt)
}

func TestApplyStatusUnknownStatusIgnored(t *testing.T) {
	m := &Message{Status: MessageStatusSent}
	assert.False(t, m.ApplyStatus(MessageStatus("bogus"), time.Now(), ""))
	assert.Equal(t, MessageStatusSent, m.Status)
}

func TestBodyPreview(t *testing.T) {
	cases := []struct {
		messageType MessageType
		body        string
		want        string
	}{
		{MessageTypeText, "hello there", "hello there"},
		{MessageTypeTemplate, "Your order #1042 has shipped.", "Your order #1042 has shipped."},
		{MessageTypeImage, "", "[Image]"},
		{MessageTypeVoice, "", "[Voice message]"},
		{MessageTypeSticker, "", "[Sticker]"},
		{MessageType("unknown"), "x", "[Message]"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BodyPreview(tc.messageType, tc.body))
	}
}

func TestMessageListParamsValidate(t *testing.T) {
	p := &MessageListParams{}
	require.NoError(t, p.Validate())
	assert.Equal(t, 20, p.Limit)

	p = &MessageListParams{Limit: 500}
	require.NoError(t, p.Validate())
	assert.Equal(t, 100, p.Limit)

	p = &MessageListParams{Limit: -1}
	assert.Error(t, p.Validate())

	p = &MessageListParams{Direction: "sideways"}
	assert.Error(t, p.Validate())
}

func TestSendBulkRequestValidate(t *testing.T) {
	req := &SendBulkRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"}
	assert.Error(t, req.Validate())

	req.Recipients = make([]BulkRecipient, 1001)
	assert.Error(t, req.Validate())

	req.Recipients = req.Recipients[:1000]
	assert.NoError(t, req.Validate())
}
