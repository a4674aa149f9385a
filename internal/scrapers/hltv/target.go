package hltv

import (
	"fmt"
	"strings"
	"time"
)

// Target selects which ranking snapshot to request. The zero value is the
// latest ranking.
type Target struct {
	at time.Time
}

func Latest() Target {
	return Target{}
}

// On targets the ranking published for the week containing `date`. Only the
// calendar date of `date` is used.
func On(date time.Time) Target {
	y, m, d := date.Date()
	return Target{at: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (t Target) IsLatest() bool {
	return t.at.IsZero()
}

// Week returns the monday of the targeted week, it is the zero time for
// the latest ranking.
func (t Target) Week() time.Time {
	if t.IsLatest() {
		return time.Time{}
	}
	// time.Weekday starts at sunday
	offset := (int(t.at.Weekday()) + 6) % 7
	return t.at.AddDate(0, 0, -offset)
}

func (t Target) String() string {
	if t.IsLatest() {
		return "latest"
	}
	return t.at.Format(time.DateOnly)
}

// RankingUrl builds the url of the ranking page for `target` under `baseUrl`.
// ex. https://www.hltv.org/ranking/teams/2024/october/21
func RankingUrl(baseUrl string, target Target) string {
	url := strings.TrimSuffix(baseUrl, "/") + LatestRankingPath
	if target.IsLatest() {
		return url
	}

	week := target.Week()
	return fmt.Sprintf(
		"%s%04d/%s/%d",
		url,
		week.Year(),
		strings.ToLower(week.Month().String()),
		week.Day(),
	)
}
