package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
)

func TestJoin_RecordsEntryAndRefreshesCounter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Join(ctx, "alice", id))
	require.NoError(t, f.ctrl.Join(ctx, "bob", id))

	g, _ := f.reg.Get(id)
	assert.Equal(t, []string{"alice", "bob"}, g.Entries)

	content, ok := f.chat.Content(id)
	require.True(t, ok)
	require.Len(t, content.Buttons, 1)
	assert.Equal(t, "2", content.Buttons[0].Label, "visible counter tracks entries")
}

func TestJoin_DuplicateRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Join(ctx, "alice", id))
	err = f.ctrl.Join(ctx, "alice", id)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	g, _ := f.reg.Get(id)
	assert.Equal(t, []string{"alice"}, g.Entries)
	assert.Contains(t, f.chat.EphemeralsTo("alice")[len(f.chat.EphemeralsTo("alice"))-1], "already entered")
}

func TestJoin_RoleGate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.chat.SetRoleRef("vip", "role-vip")
	req := f.createRequest()
	req.RoleRef = "vip"
	id, err := f.startGiveaway(ctx, req)
	require.NoError(t, err)

	err = f.ctrl.Join(ctx, "dave", id)
	assert.ErrorIs(t, err, ErrIneligibleRole)
	assert.NotEmpty(t, f.chat.EphemeralsTo("dave"), "rejection is visible to dave only")

	f.chat.SetRole("erin", "role-vip", true)
	require.NoError(t, f.ctrl.Join(ctx, "erin", id))

	g, _ := f.reg.Get(id)
	assert.Equal(t, []string{"erin"}, g.Entries)
}

func TestJoin_CounterRenderFailureKeepsEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id, err := f.startGiveaway(ctx, f.createRequest())
	require.NoError(t, err)

	// The entry set is authoritative; a failed counter re-render is logged
	// and the counter catches up on the next join.
	f.chat.UpdateErr = errors.New("platform down")
	require.NoError(t, f.ctrl.Join(ctx, "alice", id))

	g, _ := f.reg.Get(id)
	assert.Equal(t, []string{"alice"}, g.Entries)
}

func TestJoin_UnknownGiveawayIsSilent(t *testing.T) {
	f := newFixture()

	err := f.ctrl.Join(context.Background(), "alice", "long-gone")
	assert.NoError(t, err, "late click on a closed giveaway is not an error")
	assert.Empty(t, f.chat.EphemeralsTo("alice"))
}

func TestJoin_ClosedDuringRoleCheck(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.chat.SetRoleRef("vip", "role-vip")
	req := f.createRequest()
	req.RoleRef = "vip"
	id, err := f.startGiveaway(ctx, req)
	require.NoError(t, err)

	f.chat.SetRole("alice", "role-vip", true)
	// The giveaway expires while the role check is in flight. The entry must
	// not resurrect a closed giveaway.
	f.chat.RoleHook = func(userID, roleID string) {
		if userID == "alice" {
			f.chat.RoleHook = nil
			f.sched.fire(id)
		}
	}

	require.NoError(t, f.ctrl.Join(ctx, "alice", id))

	_, ok := f.reg.Get(id)
	assert.False(t, ok)
	assert.Empty(t, models.ParseMentionIDs(f.chat.Text(id)), "alice must not appear as a winner")
}
