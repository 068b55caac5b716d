package main

import (
	"bytes"
	"testing"

	"cpme_monitor/pkg/notifier"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer

	printReport(&buf, notifier.Report{
		{Channel: notifier.ChannelPush, Status: notifier.StatusSkipped},
		{Channel: notifier.ChannelSMS, Recipient: "+1", Status: notifier.StatusFailed, Err: errors.New("unverified")},
		{Channel: notifier.ChannelSMS, Recipient: "+2", Status: notifier.StatusSent},
	})

	out := buf.String()
	assert.Contains(t, out, "push      skipped  not configured")
	assert.Contains(t, out, "sms       failed   +1: unverified")
	assert.Contains(t, out, "sms       sent     +2")
	assert.Contains(t, out, "sent 1, failed 1, skipped 1")
}

func TestNotifyTestCmd_NothingConfigured(t *testing.T) {
	var buf bytes.Buffer

	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"notify-test"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "sent 0, failed 0, skipped 5")
}
