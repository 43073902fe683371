package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGiveaway_AddEntry(t *testing.T) {
	g := &Giveaway{}

	assert.True(t, g.AddEntry("alice"))
	assert.True(t, g.AddEntry("bob"))
	assert.False(t, g.AddEntry("alice"), "duplicate entry must be rejected")
	assert.Equal(t, []string{"alice", "bob"}, g.Entries)
	assert.True(t, g.HasEntry("bob"))
	assert.False(t, g.HasEntry("carol"))
}

func TestGiveaway_SetDuration_ResetsWindow(t *testing.T) {
	now := time.Now()
	g := &Giveaway{Duration: time.Hour, EndsAt: now.Add(time.Hour)}

	// The new window replaces the remainder, it does not extend it.
	g.SetDuration(10*time.Minute, now)
	assert.Equal(t, 10*time.Minute, g.Duration)
	assert.Equal(t, now.Add(10*time.Minute), g.EndsAt)
}

func TestGiveaway_HasEnded(t *testing.T) {
	now := time.Now()
	g := &Giveaway{EndsAt: now}

	assert.True(t, g.HasEnded(now))
	assert.True(t, g.HasEnded(now.Add(time.Second)))
	assert.False(t, g.HasEnded(now.Add(-time.Second)))
}

func TestGiveaway_Clone_IsDeep(t *testing.T) {
	g := &Giveaway{ID: "m1", Entries: []string{"alice"}}
	cp := g.Clone()

	cp.AddEntry("bob")
	cp.Prize = "changed"

	assert.Equal(t, []string{"alice"}, g.Entries)
	assert.Empty(t, g.Prize)
	assert.Equal(t, []string{"alice", "bob"}, cp.Entries)
}
