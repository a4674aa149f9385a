package hltv

import "time"

const (
	// SiteOrigin prefixes every relative link found on the ranking page.
	SiteOrigin        = "https://www.hltv.org"
	LatestRankingPath = "/ranking/teams/"
)

type Player struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	CountryCode string `json:"country_code"`
	PictureUrl  string `json:"picture_url"`
	Url         string `json:"url"`
}

type Team struct {
	Rank    int      `json:"rank"`
	Name    string   `json:"name"`
	LogoUrl string   `json:"logo_url"`
	Points  int      `json:"points"`
	Change  int      `json:"change"`
	Players []Player `json:"players"`
	Url     string   `json:"url"`
}

// Snapshot is a parsed ranking page: the effective date stated on the page and
// its teams in page order.
type Snapshot struct {
	Date  time.Time
	Teams []Team
}
