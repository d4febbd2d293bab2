package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewestMessageReplacesOldest(t *testing.T) {
	sink := NewSink(time.Minute)

	sink.Notify("first", SeverityInfo)
	sink.Notify("second", SeverityError)

	msg := sink.Current()
	require.NotNil(t, msg)
	assert.Equal(t, "second", msg.Text)
	assert.Equal(t, SeverityError, msg.Severity)
}

func TestAutoDismiss(t *testing.T) {
	sink := NewSink(20 * time.Millisecond)

	sink.Notify("gone soon", SeveritySuccess)
	require.NotNil(t, sink.Current())

	assert.Eventually(t, func() bool {
		return sink.Current() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestStaleTimerDoesNotDismissNewerMessage(t *testing.T) {
	sink := NewSink(30 * time.Millisecond)

	sink.Notify("first", SeverityInfo)
	time.Sleep(15 * time.Millisecond)
	sink.Notify("second", SeverityInfo)

	// the first message's interval has elapsed, the second's has not
	time.Sleep(20 * time.Millisecond)
	msg := sink.Current()
	require.NotNil(t, msg)
	assert.Equal(t, "second", msg.Text)
}
