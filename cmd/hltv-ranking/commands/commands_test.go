package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hltv-ranking/internal/export"

	"github.com/stretchr/testify/require"
)

const fixturePage = "../../../internal/scrapers/hltv/testdata/ranking.html"

type harness struct {
	dir    string
	config string

	mutex     sync.Mutex
	requested []string
}

func (h *harness) requests() []string {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.requested
}

func setup(t *testing.T) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir()}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mutex.Lock()
		h.requested = append(h.requested, r.URL.Path)
		h.mutex.Unlock()
		switch r.URL.Path {
		case "/ranking/teams/", "/ranking/teams/2024/october/21":
		default:
			http.NotFound(w, r)
			return
		}
		contents, err := os.ReadFile(fixturePage)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write(contents)
	}))
	t.Cleanup(server.Close)

	h.config = filepath.Join(h.dir, "hltv-ranking.json5")
	err := os.WriteFile(h.config, []byte(fmt.Sprintf(`{
	// served by httptest
	base_url: "%s",
	output: { indent: "  " },
}`, server.URL)), 0644)
	require.NoError(t, err)

	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append(args, "--config", h.config)
	err := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestExportLatest(t *testing.T) {
	h := setup(t)
	template := filepath.Join(h.dir, "ranking-{{ranking_date}}.json")

	stdout, _, err := h.run(t, template)
	require.NoError(t, err)

	expectedPath := filepath.Join(h.dir, "ranking-2024-10-21.json")
	require.Equal(t, expectedPath+"\n", stdout)
	require.Equal(t, []string{"/ranking/teams/"}, h.requests())

	contents, err := os.ReadFile(expectedPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(contents), "{\n  \"version\": \"1.0\",\n"))

	var ranking export.Ranking
	require.NoError(t, json.Unmarshal(contents, &ranking))
	require.Equal(t, "2024-10-21", ranking.Date)
	require.Len(t, ranking.Teams, 2)
	require.Equal(t, "Vitality", ranking.Teams[0].Name)
	require.Empty(t, ranking.Teams[0].Players)
	require.Equal(t, "Brollan", ranking.Teams[1].Players[0].Name)
}

func TestExportOnDate(t *testing.T) {
	h := setup(t)
	path := filepath.Join(h.dir, "ranking.json")

	// a thursday, the ranking of that week is published on monday
	_, _, err := h.run(t, path, "October 24th, 2024")
	require.NoError(t, err)
	require.Equal(t, []string{"/ranking/teams/2024/october/21"}, h.requests())
	require.FileExists(t, path)
}

func TestExportArchiveAndHistory(t *testing.T) {
	h := setup(t)
	dsn := filepath.Join(h.dir, "archive.db")

	_, _, err := h.run(t, filepath.Join(h.dir, "ranking.json"), "--archive", dsn)
	require.NoError(t, err)

	stdout, _, err := h.run(t, "history", "mouz", "--archive", dsn)
	require.NoError(t, err)
	require.Contains(t, stdout, "MOUZ")
	require.Contains(t, stdout, "2024-10-21")
	require.Contains(t, stdout, "987")
	require.Contains(t, stdout, "-8")
}

func TestHistoryWithoutArchive(t *testing.T) {
	h := setup(t)

	_, stderr, err := h.run(t, "history", "mouz")
	var usage usageError
	require.True(t, errors.As(err, &usage))
	require.Contains(t, stderr, "Usage:")
}

func TestShow(t *testing.T) {
	h := setup(t)

	stdout, _, err := h.run(t, "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "World ranking on 2024-10-21")
	require.Contains(t, stdout, "Vitality")
	require.Contains(t, stdout, "Brollan, torzsi")

	stdout, _, err = h.run(t, "show", "--team", "mouse")
	require.NoError(t, err)
	require.Contains(t, stdout, "MOUZ")
	require.NotContains(t, stdout, "Vitality")

	_, _, err = h.run(t, "show", "--team", "astralis")
	require.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	h := setup(t)

	cases := [][]string{
		{},
		{"ranking.json", "not a date at all"},
		{"ranking.json", "2024-10-21", "extra"},
		{"ranking.json", "--unknown-flag"},
	}
	for _, args := range cases {
		_, stderr, err := h.run(t, args...)
		var usage usageError
		require.True(t, errors.As(err, &usage), "args %v: %v", args, err)
		require.Contains(t, stderr, "Usage:")
	}
	require.Empty(t, h.requests())
}

func TestExportFetchFailure(t *testing.T) {
	h := setup(t)
	path := filepath.Join(h.dir, "ranking.json")

	_, stderr, err := h.run(t, path, "2024-01-03")
	require.Error(t, err)
	require.Contains(t, stderr, "404")
	require.NotContains(t, stderr, "Usage:")
	require.NoFileExists(t, path)
}

func TestFormatChange(t *testing.T) {
	require.Equal(t, "+15", formatChange(15))
	require.Equal(t, "-8", formatChange(-8))
	require.Equal(t, "-", formatChange(0))
}

func TestLoadConfigDefaults(t *testing.T) {
	h := setup(t)

	config, err := loadConfig(h.config)
	require.NoError(t, err)
	require.Equal(t, "  ", config.Output.Indent)
	require.NotEqual(t, "", config.BaseUrl)

	_, err = loadConfig(filepath.Join(h.dir, "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
