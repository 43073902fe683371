package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/render"
)

func TestReroll_UsesArchivedEntries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.createRequest()
	req.WinnersCount = 1
	id, err := f.startGiveaway(ctx, req)
	require.NoError(t, err)

	entrants := []string{"100", "200", "300"}
	for _, u := range entrants {
		require.NoError(t, f.ctrl.Join(ctx, u, id))
	}
	f.sched.fire(id)

	winners, err := f.ctrl.Reroll(ctx, admin, channel, id, 2)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	for _, w := range winners {
		assert.Contains(t, entrants, w)
	}
	assert.NotEqual(t, winners[0], winners[1])

	msgs := f.chat.ChannelMessages(channel)
	last := f.chat.Text(msgs[len(msgs)-1])
	assert.Contains(t, last, "Discord Nitro")
	assert.Contains(t, last, "new winners")
}

func TestReroll_DefaultsToOneWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Join(ctx, "alice", id))
	f.sched.fire(id)

	winners, err := f.ctrl.Reroll(ctx, admin, channel, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, winners)
}

func TestReroll_RejectsExcessiveCount(t *testing.T) {
	f := newFixture()
	_, err := f.ctrl.Reroll(context.Background(), admin, channel, "any", MaxRerollWinners+1)
	assert.ErrorIs(t, err, ErrInvalidWinnersCount)
}

func TestReroll_ActiveGiveaway(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.ctrl.Reroll(ctx, admin, channel, id, 1)
	assert.ErrorIs(t, err, ErrGiveawayNotEnded)
}

func TestReroll_FallsBackToMessageParsing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	// No archive: the pool comes from mention tokens in the rendered result
	// and the winners ping beneath it.
	f.ctrl.archive = nil

	id, err := f.chat.RenderAnnouncement(ctx, channel, render.WinnersResult("Steam Key", []string{"100", "200"}, now))
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, channel, render.WinnersPing("Steam Key", []string{"100", "200"}))
	require.NoError(t, err)

	winners, err := f.ctrl.Reroll(ctx, admin, channel, id, 1)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Contains(t, []string{"100", "200"}, winners[0])

	msgs := f.chat.ChannelMessages(channel)
	assert.Contains(t, f.chat.Text(msgs[len(msgs)-1]), "Steam Key", "prize recovered from rendered text")
}

func TestReroll_MessageNotEnded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.ctrl.archive = nil

	g := &models.Giveaway{Prize: "Nitro", WinnersCount: 1, HostID: "42", EndsAt: time.Now().Add(time.Hour)}
	id, err := f.chat.RenderAnnouncement(ctx, channel, render.Announcement(g, time.Now()))
	require.NoError(t, err)

	_, err = f.ctrl.Reroll(ctx, admin, channel, id, 1)
	assert.ErrorIs(t, err, ErrGiveawayNotEnded)
}

func TestReroll_UnknownMessage(t *testing.T) {
	f := newFixture()
	f.ctrl.archive = nil

	_, err := f.ctrl.Reroll(context.Background(), admin, channel, "no-such-message", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReroll_NoParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.ctrl.archive = nil

	id, err := f.chat.RenderAnnouncement(ctx, channel, render.NoEntrants("Nitro", time.Now()))
	require.NoError(t, err)

	_, err = f.ctrl.Reroll(ctx, admin, channel, id, 1)
	assert.ErrorIs(t, err, ErrNoParticipantsFound)
}

func TestReroll_AnnounceFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Join(ctx, "alice", id))
	f.sched.fire(id)

	f.chat.SendErr = errors.New("platform down")
	_, err = f.ctrl.Reroll(ctx, admin, channel, id, 1)
	assert.Error(t, err)
}

func TestReroll_RequiresAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.ctrl.Reroll(context.Background(), "pleb-1", channel, "any", 1)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestReroll_CountCappedByPool(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Join(ctx, "alice", id))
	require.NoError(t, f.ctrl.Join(ctx, "bob", id))
	f.sched.fire(id)

	winners, err := f.ctrl.Reroll(ctx, admin, channel, id, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, winners)
}
