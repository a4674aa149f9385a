package hltv

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	selectTeams   = ".ranking .ranked-team"
	selectPlayers = ".lineup .player-holder"
)

var (
	teamName    = Field[string]{Selector: ".ranking-header .name"}
	teamPoints  = Field[int]{Selector: ".ranking-header .points", Transform: ParsePoints}
	teamChange  = Field[int]{Selector: ".ranking-header .change", Transform: ParseChange}
	teamLogoUrl = Field[string]{Selector: ".team-logo img", Accessor: Attr("src")}
	teamUrl     = Field[string]{
		Selector:  ".lineup-con .more a.moreLink:not(.details)",
		Accessor:  Attr("href"),
		Transform: AbsoluteUrl,
	}

	playerNick       = Field[string]{Selector: ".nick"}
	playerPictureUrl = Field[string]{Selector: ".playerPicture", Accessor: Attr("src")}
	playerCountry    = Field[string]{Selector: ".flag", Accessor: Attr("src"), Transform: CountryCode}
	playerUrl        = Field[string]{Selector: "a.pointer", Accessor: Attr("href"), Transform: AbsoluteUrl}
)

func playerFullName(nick string) Field[string] {
	return Field[string]{
		Selector:  ".playerPicture",
		Accessor:  Attr("alt"),
		Transform: StripNickname(nick),
	}
}

// ParseTeams reads every ranked team in page order. Ranks are assigned by
// position, whatever numbering the page displays.
func ParseTeams(doc *goquery.Selection) ([]Team, error) {
	entries := doc.Find(selectTeams)
	if entries.Length() == 0 {
		return nil, &StructureError{Selector: selectTeams}
	}

	teams := make([]Team, 0, entries.Length())
	for i := range entries.Nodes {
		team, err := parseTeam(entries.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("team #%d: %w", i+1, err)
		}
		team.Rank = i + 1
		teams = append(teams, team)
	}
	return teams, nil
}

func parseTeam(div *goquery.Selection) (Team, error) {
	var team Team
	var err error

	team.Name, err = Extract(div, teamName)
	if err != nil {
		return Team{}, err
	}
	team.Points, err = Extract(div, teamPoints)
	if err != nil {
		return Team{}, err
	}
	team.Change, err = Extract(div, teamChange)
	if err != nil {
		return Team{}, err
	}
	team.LogoUrl, err = Extract(div, teamLogoUrl)
	if err != nil {
		return Team{}, err
	}
	team.Players, err = ParsePlayers(div)
	if err != nil {
		return Team{}, err
	}
	team.Url, err = Extract(div, teamUrl)
	if err != nil {
		return Team{}, err
	}

	return team, nil
}

// ParsePlayers reads the lineup of a team, sorted by case-insensitive name.
// A team without a lineup has no players.
func ParsePlayers(team *goquery.Selection) ([]Player, error) {
	entries := team.Find(selectPlayers)

	players := make([]Player, 0, entries.Length())
	for i := range entries.Nodes {
		player, err := parsePlayer(entries.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("player #%d: %w", i+1, err)
		}
		players = append(players, player)
	}

	SortPlayers(players)
	return players, nil
}

func parsePlayer(div *goquery.Selection) (Player, error) {
	var player Player
	var err error

	player.Name, err = Extract(div, playerNick)
	if err != nil {
		return Player{}, err
	}
	player.FullName, err = Extract(div, playerFullName(player.Name))
	if err != nil {
		return Player{}, err
	}
	player.CountryCode, err = Extract(div, playerCountry)
	if err != nil {
		return Player{}, err
	}
	player.PictureUrl, err = Extract(div, playerPictureUrl)
	if err != nil {
		return Player{}, err
	}
	player.Url, err = Extract(div, playerUrl)
	if err != nil {
		return Player{}, err
	}

	return player, nil
}

// SortPlayers orders players by lowercased name, players with equal names
// keep their relative order.
func SortPlayers(players []Player) {
	slices.SortStableFunc(players, func(a, b Player) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
