package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"hltv-ranking/internal/components/assert"
	"hltv-ranking/internal/export"
	"hltv-ranking/internal/scrapers/hltv"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var tracer = otel.Tracer("archive")

// Store keeps exported rankings, one snapshot per ranking date.
type Store struct {
	db *sql.DB
}

var _ export.Archive = Store{}

func driverFor(dsn string) string {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "libsql"
		}
	}
	return "sqlite"
}

// Open connects to a local sqlite file (or `:memory:`) or to a remote libsql
// database when `dsn` is a url, and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (Store, error) {
	driver := driverFor(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return Store{}, err
	}
	if driver == "sqlite" {
		// every connection to ":memory:" would otherwise see its own database
		db.SetMaxOpenConns(1)
	}
	store, err := NewStore(ctx, db)
	if err != nil {
		db.Close()
		return Store{}, err
	}
	return store, nil
}

func NewStore(ctx context.Context, db *sql.DB) (Store, error) {
	assert.NotNil(db, "db")
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return Store{}, fmt.Errorf("create schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Push stores `ranking`, replacing the snapshot already stored for its date.
func (s Store) Push(ctx context.Context, ranking export.Ranking) error {
	ctx, span := tracer.Start(ctx, "store:Push")
	defer span.End()
	span.SetAttributes(attribute.String("date", ranking.Date))

	err := s.push(ctx, ranking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s Store) push(ctx context.Context, ranking export.Ranking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"delete from team_player where snapshot_id in (select id from snapshot where date = ?)",
		"delete from team_rank where snapshot_id in (select id from snapshot where date = ?)",
		"delete from snapshot where date = ?",
	} {
		_, err = tx.ExecContext(ctx, stmt, ranking.Date)
		if err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(
		ctx,
		"insert into snapshot(date, version, source, type) values (?, ?, ?, ?)",
		ranking.Date, ranking.Version, ranking.Source, ranking.Type,
	)
	if err != nil {
		return err
	}
	snapshotId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, team := range ranking.Teams {
		_, err = tx.ExecContext(
			ctx,
			"insert into team_rank(snapshot_id, rank, name, points, change, logo_url, url) values (?, ?, ?, ?, ?, ?, ?)",
			snapshotId, team.Rank, team.Name, team.Points, team.Change, team.LogoUrl, team.Url,
		)
		if err != nil {
			return fmt.Errorf("team %q: %w", team.Name, err)
		}

		for _, player := range team.Players {
			_, err = tx.ExecContext(
				ctx,
				"insert into team_player(snapshot_id, rank, name, full_name, country_code, picture_url, url) values (?, ?, ?, ?, ?, ?, ?)",
				snapshotId, team.Rank, player.Name, player.FullName, player.CountryCode, player.PictureUrl, player.Url,
			)
			if err != nil {
				return fmt.Errorf("player %q: %w", player.Name, err)
			}
		}
	}

	return tx.Commit()
}

// Dates lists the archived ranking dates, oldest first.
func (s Store) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select date from snapshot order by date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		err = rows.Scan(&date)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// Get rebuilds the ranking archived for `date`, sql.ErrNoRows is returned if
// there is none.
func (s Store) Get(ctx context.Context, date string) (export.Ranking, error) {
	var ranking export.Ranking
	var snapshotId int64
	err := s.db.QueryRowContext(
		ctx,
		"select id, date, version, source, type from snapshot where date = ?",
		date,
	).Scan(&snapshotId, &ranking.Date, &ranking.Version, &ranking.Source, &ranking.Type)
	if err != nil {
		return export.Ranking{}, err
	}

	teams, err := s.teams(ctx, snapshotId)
	if err != nil {
		return export.Ranking{}, err
	}
	ranking.Teams = teams
	return ranking, nil
}

func (s Store) teams(ctx context.Context, snapshotId int64) ([]hltv.Team, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select rank, name, points, change, logo_url, url from team_rank where snapshot_id = ? order by rank",
		snapshotId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []hltv.Team{}
	for rows.Next() {
		team := hltv.Team{Players: []hltv.Player{}}
		err = rows.Scan(&team.Rank, &team.Name, &team.Points, &team.Change, &team.LogoUrl, &team.Url)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	players, err := s.db.QueryContext(
		ctx,
		"select rank, name, full_name, country_code, picture_url, url from team_player where snapshot_id = ? order by rowid",
		snapshotId,
	)
	if err != nil {
		return nil, err
	}
	defer players.Close()

	for players.Next() {
		var rank int
		var player hltv.Player
		err = players.Scan(&rank, &player.Name, &player.FullName, &player.CountryCode, &player.PictureUrl, &player.Url)
		if err != nil {
			return nil, err
		}
		// ranks are dense and start at 1
		if rank < 1 || rank > len(teams) {
			return nil, fmt.Errorf("player %q has unknown rank %d", player.Name, rank)
		}
		teams[rank-1].Players = append(teams[rank-1].Players, player)
	}
	return teams, players.Err()
}

// TeamNames lists every team name in the archive.
func (s Store) TeamNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select distinct name from team_rank order by name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type TeamEntry struct {
	Date   string
	Rank   int
	Points int
	Change int
}

// TeamHistory lists the archived standings of the team called `name`, oldest first.
func (s Store) TeamHistory(ctx context.Context, name string) ([]TeamEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select snapshot.date, team_rank.rank, team_rank.points, team_rank.change
		from team_rank
		inner join snapshot on snapshot.id = team_rank.snapshot_id
		where team_rank.name = ?
		order by snapshot.date`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TeamEntry
	for rows.Next() {
		var e TeamEntry
		err = rows.Scan(&e.Date, &e.Rank, &e.Points, &e.Change)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
