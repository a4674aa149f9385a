package archive

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"hltv-ranking/internal/export"
	"hltv-ranking/internal/scrapers/hltv"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) Store {
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func ranking(date string, teams ...hltv.Team) export.Ranking {
	return export.Ranking{
		Version: export.Version,
		Date:    date,
		Source:  export.Source,
		Type:    export.Type,
		Teams:   teams,
	}
}

func team(rank int, name string, points, change int, players ...hltv.Player) hltv.Team {
	if players == nil {
		players = []hltv.Player{}
	}
	return hltv.Team{
		Rank:    rank,
		Name:    name,
		LogoUrl: "https://img-cdn.hltv.org/teamlogo/" + name + ".svg",
		Points:  points,
		Change:  change,
		Players: players,
		Url:     "https://www.hltv.org/team/1/" + name,
	}
}

func player(name string) hltv.Player {
	return hltv.Player{
		Name:        name,
		FullName:    "Full " + name,
		CountryCode: "SE",
		PictureUrl:  "https://img-cdn.hltv.org/playerbodyshot/" + name + ".png",
		Url:         "https://www.hltv.org/player/1/" + name,
	}
}

func TestDriverFor(t *testing.T) {
	require.Equal(t, "sqlite", driverFor(":memory:"))
	require.Equal(t, "sqlite", driverFor("state/archive.db"))
	require.Equal(t, "libsql", driverFor("libsql://rankings.turso.io?authToken=x"))
	require.Equal(t, "libsql", driverFor("http://127.0.0.1:8080"))
}

func TestPushAndGet(t *testing.T) {
	ctx := context.Background()
	store := setup(t)

	expected := ranking(
		"2024-10-21",
		team(1, "Vitality", 1000, 0),
		team(2, "MOUZ", 987, -8, player("Brollan"), player("torzsi")),
	)
	require.NoError(t, store.Push(ctx, expected))

	got, err := store.Get(ctx, "2024-10-21")
	require.NoError(t, err)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal("archived ranking differs:\n", diff)
	}

	_, err = store.Get(ctx, "2024-10-14")
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestPushReplacesDate(t *testing.T) {
	ctx := context.Background()
	store := setup(t)

	require.NoError(t, store.Push(ctx, ranking(
		"2024-10-21",
		team(1, "Vitality", 1000, 0, player("ZywOo")),
		team(2, "MOUZ", 987, -8),
	)))
	require.NoError(t, store.Push(ctx, ranking(
		"2024-10-21",
		team(1, "MOUZ", 990, 1),
	)))

	got, err := store.Get(ctx, "2024-10-21")
	require.NoError(t, err)
	require.Len(t, got.Teams, 1)
	require.Equal(t, "MOUZ", got.Teams[0].Name)
	require.Empty(t, got.Teams[0].Players)

	dates, err := store.Dates(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-10-21"}, dates)

	names, err := store.TeamNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"MOUZ"}, names)
}

func TestTeamHistory(t *testing.T) {
	ctx := context.Background()
	store := setup(t)

	require.NoError(t, store.Push(ctx, ranking(
		"2024-10-21",
		team(1, "Vitality", 1000, 0),
		team(2, "MOUZ", 987, -1),
	)))
	require.NoError(t, store.Push(ctx, ranking(
		"2024-10-14",
		team(1, "MOUZ", 1002, 0),
		team(2, "Vitality", 950, 3),
	)))

	history, err := store.TeamHistory(ctx, "MOUZ")
	require.NoError(t, err)
	require.Equal(t, []TeamEntry{
		{Date: "2024-10-14", Rank: 1, Points: 1002, Change: 0},
		{Date: "2024-10-21", Rank: 2, Points: 987, Change: -1},
	}, history)

	dates, err := store.Dates(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-10-14", "2024-10-21"}, dates)

	history, err = store.TeamHistory(ctx, "Astralis")
	require.NoError(t, err)
	require.Empty(t, history)
}
