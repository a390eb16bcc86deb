package server

import (
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// A request names its clan directly or through one of the clan's players.
type ClanRef struct {
	ClanTag   string `json:"clanTag,omitempty"`
	PlayerTag string `json:"playerTag,omitempty"`
}

type GetSkillProfilesRequest struct {
	ClanRef
	MemberTags []string `json:"memberTags,omitempty"`
}

type GetSkillProfilesResponse struct {
	ClanTag  string         `json:"clanTag,omitempty"`
	Profiles []SkillProfile `json:"profiles"`
}

type RecomputeProfilesRequest struct {
	ClanRef
	Sync bool `json:"sync,omitempty"`
}

type RecomputeProfilesResponse struct {
	ClanTag  string         `json:"clanTag"`
	Sync     *SyncResult    `json:"sync,omitempty"`
	Profiles []SkillProfile `json:"profiles"`
}

type GetAttendanceRequest struct {
	ClanRef
	WindowDays int `json:"windowDays,omitempty"`
}

type GetAttendanceResponse struct {
	ClanTag string              `json:"clanTag"`
	Members []AttendanceSummary `json:"members"`
	Summary AttendanceOverview  `json:"summary"`
}

type GetLineupRequest struct {
	ClanRef
	TeamSize int `json:"teamSize,omitempty"`
}

type GetLineupResponse struct {
	ClanTag            string        `json:"clanTag"`
	TeamSize           int           `json:"teamSize"`
	Lineup             []LineupEntry `json:"lineup"`
	Bench              []LineupEntry `json:"bench"`
	Openers            []LineupEntry `json:"openers"`
	CleanupSpecialists []LineupEntry `json:"cleanupSpecialists"`
}

type GetAssignmentsRequest struct {
	ClanRef
}

type GetAssignmentsResponse struct {
	ClanTag      string       `json:"clanTag"`
	OpponentTag  string       `json:"opponentTag"`
	OpponentName string       `json:"opponentName"`
	State        string       `json:"state"`
	TeamSize     int          `json:"teamSize"`
	Assignments  []Assignment `json:"assignments"`
	Alternates   []Member     `json:"alternates"`
}

type SyncClanRequest struct {
	ClanTag string `json:"clanTag"`
}

type SyncClanResponse struct {
	Result SyncResult `json:"result"`
}

type SkillProfile struct {
	MemberTag         string    `json:"memberTag"`
	OffenseSkill      int       `json:"offenseSkill"`
	CleanupSkill      int       `json:"cleanupSkill"`
	Consistency       int       `json:"consistency"`
	Clutch            int       `json:"clutch"`
	Participation     int       `json:"participation"`
	CapitalEfficiency int       `json:"capitalEfficiency"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type AttendanceSummary struct {
	MemberTag         string     `json:"memberTag"`
	MemberName        string     `json:"memberName,omitempty"`
	WarsCount         int        `json:"warsCount"`
	ExpectedAttacks   int        `json:"expectedAttacks"`
	UsedAttacks       int        `json:"usedAttacks"`
	MissedAttacks     int        `json:"missedAttacks"`
	ParticipationRate int        `json:"participationRate"`
	MissRate          int        `json:"missRate"`
	Risk              int        `json:"risk"`
	LastEventTime     *time.Time `json:"lastEventTime,omitempty"`
}

type AttendanceOverview struct {
	WindowDays      int `json:"windowDays"`
	EventsAnalyzed  int `json:"eventsAnalyzed"`
	MembersAnalyzed int `json:"membersAnalyzed"`
	AvgMissRate     int `json:"avgMissRate"`
}

type Member struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	TownHallLevel int    `json:"townHallLevel"`
	Role          string `json:"role,omitempty"`
	MapPosition   int    `json:"mapPosition"`
}

type LineupEntry struct {
	Member    Member       `json:"member"`
	Profile   SkillProfile `json:"profile"`
	Composite int          `json:"composite"`
}

type Assignment struct {
	Attacker       Member    `json:"attacker"`
	Defender       Member    `json:"defender"`
	PredictedStars float64   `json:"predictedStars"`
	Rationale      Rationale `json:"rationale"`
}

type Rationale struct {
	THDiff  int `json:"thDiff"`
	Offense int `json:"offense"`
	Clutch  int `json:"clutch"`
}

type SyncResult struct {
	ClanTag    string `json:"clanTag"`
	Members    int    `json:"members"`
	Wars       int    `json:"wars"`
	Attacks    int    `json:"attacks"`
	WarSkipped string `json:"warSkipped,omitempty"`
}

func toSkillProfile(p domain.SkillProfile) SkillProfile {
	return SkillProfile{
		MemberTag:         p.MemberID,
		OffenseSkill:      p.OffenseSkill,
		CleanupSkill:      p.CleanupSkill,
		Consistency:       p.Consistency,
		Clutch:            p.Clutch,
		Participation:     p.Participation,
		CapitalEfficiency: p.CapitalEfficiency,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toSkillProfiles(profiles []domain.SkillProfile) []SkillProfile {
	out := make([]SkillProfile, len(profiles))
	for i, p := range profiles {
		out[i] = toSkillProfile(p)
	}
	return out
}

func toMember(m domain.LiveMember) Member {
	return Member{
		Tag:           m.ID,
		Name:          m.Name,
		TownHallLevel: m.TownHallLevel,
		Role:          m.Role,
		MapPosition:   m.MapPosition,
	}
}

func toLineupEntries(entries []domain.LineupEntry) []LineupEntry {
	out := make([]LineupEntry, len(entries))
	for i, e := range entries {
		out[i] = LineupEntry{Member: toMember(e.Member), Profile: toSkillProfile(e.Profile), Composite: e.Composite}
	}
	return out
}

func toAttendance(members []domain.AttendanceSummary) []AttendanceSummary {
	out := make([]AttendanceSummary, len(members))
	for i, m := range members {
		out[i] = AttendanceSummary{
			MemberTag:         m.MemberID,
			MemberName:        m.MemberName,
			WarsCount:         m.WarsCount,
			ExpectedAttacks:   m.ExpectedAttacks,
			UsedAttacks:       m.UsedAttacks,
			MissedAttacks:     m.MissedAttacks,
			ParticipationRate: m.ParticipationRate,
			MissRate:          m.MissRate,
			Risk:              m.Risk,
		}
		if !m.LastEventTime.IsZero() {
			last := m.LastEventTime
			out[i].LastEventTime = &last
		}
	}
	return out
}

func toSyncResult(r domain.SyncResult) SyncResult {
	return SyncResult{
		ClanTag:    r.ClanTag,
		Members:    r.Members,
		Wars:       r.Wars,
		Attacks:    r.Attacks,
		WarSkipped: r.WarSkipped,
	}
}
