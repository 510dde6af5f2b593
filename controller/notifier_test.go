package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motion-tracker/testutil"
)

func TestNotifier_ExpiresAfterTTL(t *testing.T) {
	clock := testutil.NewManualClock(epoch)
	n := NewNotifier(0, clock)
	assert.Empty(t, n.Current())

	n.Show("Recording started in chunked mode")
	assert.Equal(t, "Recording started in chunked mode", n.Current())

	clock.Advance(DefaultNotificationTTL - time.Millisecond)
	assert.NotEmpty(t, n.Current())

	clock.Advance(time.Millisecond)
	assert.Empty(t, n.Current())
}

func TestNotifier_NewMessageRestartsTTL(t *testing.T) {
	clock := testutil.NewManualClock(epoch)
	n := NewNotifier(time.Second, clock)

	n.Show("first")
	clock.Advance(800 * time.Millisecond)
	n.Show("second")
	clock.Advance(800 * time.Millisecond)
	assert.Equal(t, "second", n.Current())

	clock.Advance(200 * time.Millisecond)
	assert.Empty(t, n.Current())
}

func TestNotifier_NilIsSafe(t *testing.T) {
	var n *Notifier
	n.Show("ignored")
	assert.Empty(t, n.Current())
}
