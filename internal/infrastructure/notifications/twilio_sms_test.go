package notifications

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithoutCredentialsLogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	sender := NewTwilioSMS("", "", "", logger)

	err := sender.Send("+15550001111", "Your verification code is: 123456. Valid for 5 minutes.")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "mock SMS")
	assert.Contains(t, buf.String(), "+15550001111")
	assert.Contains(t, buf.String(), "123456")
}
