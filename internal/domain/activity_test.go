package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivityState_DerivedFromTimestamps(t *testing.T) {
	now := time.Now().UTC()
	a := &Activity{SequenceNumber: 1}

	assert.Equal(t, ActivityUnreleased, a.State())
	assert.False(t, a.Released())
	assert.False(t, a.Completed())

	a.Release(now)
	assert.Equal(t, ActivityReleased, a.State())
	assert.True(t, a.Released())

	a.Complete(now)
	assert.Equal(t, ActivityCompleted, a.State())
	assert.True(t, a.Completed())
}

func TestActivityRelease_FirstTimestampStands(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	a := &Activity{}
	a.Release(first)
	a.Release(later)

	assert.Equal(t, first, *a.ReleasedAt)
}

func TestActivityReopen_KeepsRelease(t *testing.T) {
	now := time.Now().UTC()
	a := &Activity{}
	a.Release(now)
	a.Complete(now)

	a.Reopen(now.Add(time.Hour))

	assert.Nil(t, a.CompletedAt)
	assert.NotNil(t, a.ReleasedAt)
	assert.Equal(t, ActivityReleased, a.State())
}
