package api

import (
	"strings"
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// TimeLayout is the timestamp format used throughout the Clash of Clans API.
const TimeLayout = "20060102T150405.000Z"

const (
	WarStateNotInWar    = "notInWar"
	WarStatePreparation = "preparation"
	WarStateInWar       = "inWar"
	WarStateEnded       = "warEnded"
)

type ClanResponse struct {
	Tag        string         `json:"tag"`
	Name       string         `json:"name"`
	ClanLevel  int            `json:"clanLevel"`
	Members    int            `json:"members"`
	MemberList []ClanMemberV1 `json:"memberList"`
}

type ClanMemberV1 struct {
	Tag               string `json:"tag"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	TownHallLevel     int    `json:"townHallLevel"`
	ExpLevel          int    `json:"expLevel"`
	Trophies          int    `json:"trophies"`
	ClanRank          int    `json:"clanRank"`
	Donations         int    `json:"donations"`
	DonationsReceived int    `json:"donationsReceived"`
}

type WarResponse struct {
	State                string  `json:"state"`
	TeamSize             int     `json:"teamSize"`
	AttacksPerMember     int     `json:"attacksPerMember"`
	PreparationStartTime string  `json:"preparationStartTime"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Clan                 WarClan `json:"clan"`
	Opponent             WarClan `json:"opponent"`
	WarTag               string  `json:"-"`

	// set when fetched from the league endpoint
	League bool `json:"-"`
}

type WarClan struct {
	Tag                   string      `json:"tag"`
	Name                  string      `json:"name"`
	ClanLevel             int         `json:"clanLevel"`
	Attacks               int         `json:"attacks"`
	Stars                 int         `json:"stars"`
	DestructionPercentage float64     `json:"destructionPercentage"`
	Members               []WarMember `json:"members"`
}

type WarMember struct {
	Tag           string      `json:"tag"`
	Name          string      `json:"name"`
	TownHallLevel int         `json:"townhallLevel"`
	MapPosition   int         `json:"mapPosition"`
	Attacks       []WarAttack `json:"attacks"`
}

type WarAttack struct {
	AttackerTag           string  `json:"attackerTag"`
	DefenderTag           string  `json:"defenderTag"`
	Stars                 int     `json:"stars"`
	DestructionPercentage float64 `json:"destructionPercentage"`
	Order                 int     `json:"order"`
	Duration              int     `json:"duration"`
}

type LeagueGroupResponse struct {
	State  string        `json:"state"`
	Season string        `json:"season"`
	Rounds []LeagueRound `json:"rounds"`
}

type LeagueRound struct {
	WarTags []string `json:"warTags"`
}

// PlayedWarTags returns the war tags of rounds that have been drawn. Undrawn rounds use "#0".
func (g *LeagueGroupResponse) PlayedWarTags() []string {
	var tags []string
	for _, r := range g.Rounds {
		for _, t := range r.WarTags {
			if t != "" && t != "#0" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func ParseTime(v string) (time.Time, error) {
	return time.Parse(TimeLayout, v)
}

// IsLeagueFormat reports whether members get a single attack, as in clan war league.
func (w *WarResponse) IsLeagueFormat() bool {
	return w.League || w.AttacksPerMember == 1
}

// HasHistory reports whether the war has started and its attacks are worth storing.
func (w *WarResponse) HasHistory() bool {
	return w.State == WarStateInWar || w.State == WarStateEnded
}

// Involves reports whether clanTag is one of the two sides.
func (w *WarResponse) Involves(clanTag string) bool {
	return strings.EqualFold(w.Clan.Tag, clanTag) || strings.EqualFold(w.Opponent.Tag, clanTag)
}

// OrientTo returns a copy with clanTag on the Clan side. League wars list the sides in arbitrary order.
func (w WarResponse) OrientTo(clanTag string) WarResponse {
	if strings.EqualFold(w.Opponent.Tag, clanTag) {
		w.Clan, w.Opponent = w.Opponent, w.Clan
	}
	return w
}

func (c *ClanResponse) LiveMembers() []domain.LiveMember {
	out := make([]domain.LiveMember, len(c.MemberList))
	for i, m := range c.MemberList {
		out[i] = domain.LiveMember{
			ID:            m.Tag,
			Name:          m.Name,
			TownHallLevel: m.TownHallLevel,
			Role:          m.Role,
			MapPosition:   m.ClanRank,
		}
	}
	return out
}

func (c *ClanResponse) Snapshots(day time.Time) []domain.ActivitySnapshot {
	out := make([]domain.ActivitySnapshot, len(c.MemberList))
	for i, m := range c.MemberList {
		out[i] = domain.ActivitySnapshot{
			SnapshotDay:       day,
			ClanTag:           c.Tag,
			MemberID:          m.Tag,
			MemberName:        m.Name,
			Role:              m.Role,
			TownHallLevel:     m.TownHallLevel,
			Trophies:          m.Trophies,
			DonationsGiven:    m.Donations,
			DonationsReceived: m.DonationsReceived,
		}
	}
	return out
}

func warMembers(members []WarMember) []domain.LiveMember {
	out := make([]domain.LiveMember, len(members))
	for i, m := range members {
		out[i] = domain.LiveMember{
			ID:            m.Tag,
			Name:          m.Name,
			TownHallLevel: m.TownHallLevel,
			MapPosition:   m.MapPosition,
		}
	}
	return out
}

// LiveWar converts the Clan side to ours. An unparsable end time is left zero.
func (w *WarResponse) LiveWar() domain.LiveWar {
	end, _ := ParseTime(w.EndTime)
	return domain.LiveWar{
		ClanTag:         w.Clan.Tag,
		State:           w.State,
		TeamSize:        w.TeamSize,
		IsLeagueFormat:  w.IsLeagueFormat(),
		EndTime:         end,
		OpponentTag:     w.Opponent.Tag,
		OpponentName:    w.Opponent.Name,
		OurMembers:      warMembers(w.Clan.Members),
		OpponentMembers: warMembers(w.Opponent.Members),
	}
}

// History splits a started war into the rows the history store keeps for the Clan side.
func (w *WarResponse) History() (domain.WarEvent, []domain.RosterEntry, []domain.AttackRecord, error) {
	end, err := ParseTime(w.EndTime)
	if err != nil {
		return domain.WarEvent{}, nil, nil, err
	}
	league := w.IsLeagueFormat()

	event := domain.WarEvent{
		ClanTag:        w.Clan.Tag,
		EndTime:        end,
		IsLeagueFormat: league,
		TeamSize:       w.TeamSize,
		OpponentTag:    w.Opponent.Tag,
		OpponentName:   w.Opponent.Name,
		State:          w.State,
	}

	positions := make(map[string]int, len(w.Opponent.Members))
	for _, m := range w.Opponent.Members {
		positions[m.Tag] = m.MapPosition
	}

	roster := make([]domain.RosterEntry, 0, len(w.Clan.Members))
	var attacks []domain.AttackRecord
	for _, m := range w.Clan.Members {
		roster = append(roster, domain.RosterEntry{
			EventEndTime: end,
			ClanTag:      w.Clan.Tag,
			MemberID:     m.Tag,
			MemberName:   m.Name,
			MapPosition:  m.MapPosition,
		})
		for _, a := range m.Attacks {
			attacks = append(attacks, domain.AttackRecord{
				ClanTag:            w.Clan.Tag,
				EventEndTime:       end,
				AttackerID:         m.Tag,
				DefenderID:         a.DefenderTag,
				Stars:              a.Stars,
				DestructionPercent: a.DestructionPercentage,
				OrderNum:           a.Order,
				IsLeagueFormat:     league,
				MapPosition:        positions[a.DefenderTag],
			})
		}
	}
	return event, roster, attacks, nil
}
