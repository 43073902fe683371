package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
)

func TestMemoryRegistry_SetGetDelete(t *testing.T) {
	reg := NewMemory()

	_, ok := reg.Get("m1")
	assert.False(t, ok)

	reg.Set(&models.Giveaway{ID: "m1", Prize: "Nitro"})
	g, ok := reg.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "Nitro", g.Prize)
	assert.Equal(t, 1, reg.Len())

	deleted, ok := reg.Delete("m1")
	require.True(t, ok)
	assert.Equal(t, "m1", deleted.ID)
	assert.Equal(t, 0, reg.Len())

	_, ok = reg.Delete("m1")
	assert.False(t, ok)
}

func TestMemoryRegistry_SetOverwrites(t *testing.T) {
	reg := NewMemory()
	reg.Set(&models.Giveaway{ID: "m1", Prize: "old"})
	reg.Set(&models.Giveaway{ID: "m1", Prize: "new"})

	g, ok := reg.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "new", g.Prize)
	assert.Equal(t, 1, reg.Len())
}

func TestMemoryRegistry_SnapshotsDoNotAlias(t *testing.T) {
	reg := NewMemory()
	original := &models.Giveaway{ID: "m1", Entries: []string{"alice"}}
	reg.Set(original)

	// Mutating the inserted value or a returned snapshot must not leak into
	// the stored record.
	original.Entries = append(original.Entries, "bob")
	snap, _ := reg.Get("m1")
	snap.AddEntry("carol")

	current, _ := reg.Get("m1")
	assert.Equal(t, []string{"alice"}, current.Entries)
}

func TestMemoryRegistry_Update(t *testing.T) {
	reg := NewMemory()
	reg.Set(&models.Giveaway{ID: "m1"})

	err := reg.Update("m1", func(g *models.Giveaway) error {
		g.AddEntry("alice")
		return nil
	})
	require.NoError(t, err)

	g, _ := reg.Get("m1")
	assert.Equal(t, []string{"alice"}, g.Entries)
}

func TestMemoryRegistry_UpdateMissing(t *testing.T) {
	reg := NewMemory()

	called := false
	err := reg.Update("gone", func(g *models.Giveaway) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestMemoryRegistry_List(t *testing.T) {
	reg := NewMemory()
	reg.Set(&models.Giveaway{ID: "m1"})
	reg.Set(&models.Giveaway{ID: "m2"})

	list := reg.List()
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}
