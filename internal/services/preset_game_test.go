package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Masaicker/GamePact/internal/models"
)

func TestPresetGameCreateAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewPresetGameService(db)

	_, err := svc.Create("Dota 2", "https://store.steampowered.com/app/570")
	require.NoError(t, err)
	_, err = svc.Create("Factorio", "")
	require.NoError(t, err)

	_, err = svc.Create("  ", "")
	require.Error(t, err, "blank name")
	_, err = svc.Create("dota 2", "")
	require.Error(t, err, "case-insensitive duplicate")

	games, err := svc.List("dota")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "Dota 2", games[0].Name)

	games, err = svc.List("")
	require.NoError(t, err)
	require.Len(t, games, 2)
}

func TestPresetGameImportSkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewPresetGameService(db)

	_, err := svc.Create("Factorio", "")
	require.NoError(t, err)

	created, err := svc.Import([]models.PresetGame{
		{Name: "Factorio"},
		{Name: "Dota 2"},
		{Name: ""},
		{Name: "Stellaris"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, created)

	games, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, games, 3)
}

func TestPresetGameDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewPresetGameService(db)

	game, err := svc.Create("Factorio", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(game.ID))
	require.Error(t, svc.Delete(game.ID))
}
