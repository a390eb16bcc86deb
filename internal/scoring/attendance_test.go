package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

func rosterFor(event time.Time, ids ...string) []domain.RosterEntry {
	out := make([]domain.RosterEntry, len(ids))
	for i, id := range ids {
		out[i] = domain.RosterEntry{EventEndTime: event, ClanTag: "#CLAN", MemberID: id, MemberName: "name" + id, MapPosition: i + 1}
	}
	return out
}

func TestAnalyzeAttendance_LeagueAndStandardEvents(t *testing.T) {
	cwl := daysAgo(40)
	regular := daysAgo(30)

	roster := append(rosterFor(cwl, "#P"), rosterFor(regular, "#P")...)
	attacks := []domain.AttackRecord{
		{EventEndTime: cwl, AttackerID: "#P", Stars: 3, IsLeagueFormat: true},
		{EventEndTime: regular, AttackerID: "#P", Stars: 2},
	}
	events := []domain.WarEvent{
		{EndTime: cwl, IsLeagueFormat: true},
		{EndTime: regular},
	}

	report := AnalyzeAttendance(roster, attacks, events, 60, DefaultConfig(), testNow)

	require.Len(t, report.Members, 1)
	p := report.Members[0]
	assert.Equal(t, "#P", p.MemberID)
	assert.Equal(t, 2, p.WarsCount)
	assert.Equal(t, 3, p.ExpectedAttacks)
	assert.Equal(t, 2, p.UsedAttacks)
	assert.Equal(t, 1, p.MissedAttacks)
	assert.Equal(t, 33, p.MissRate)
	assert.Equal(t, 100, p.ParticipationRate)
	assert.Equal(t, 23, p.Risk)
	assert.Equal(t, regular, p.LastEventTime)

	assert.Equal(t, domain.AttendanceOverview{
		WindowDays:      60,
		EventsAnalyzed:  2,
		MembersAnalyzed: 1,
		AvgMissRate:     33,
	}, report.Summary)
}

func TestAnalyzeAttendance_EmptyWindow(t *testing.T) {
	report := AnalyzeAttendance(nil, nil, nil, 0, DefaultConfig(), testNow)
	assert.Empty(t, report.Members)
	assert.Equal(t, 0, report.Summary.MembersAnalyzed)
	assert.Equal(t, 0, report.Summary.AvgMissRate)
	assert.Equal(t, 60, report.Summary.WindowDays)
}

func TestAnalyzeAttendance_RecentMissPenaltyAndSort(t *testing.T) {
	recent := daysAgo(3)
	old := daysAgo(25)

	roster := append(rosterFor(recent, "#LAZY", "#OK"), rosterFor(old, "#LAZY", "#OK")...)
	attacks := []domain.AttackRecord{
		{EventEndTime: recent, AttackerID: "#OK"},
		{EventEndTime: recent, AttackerID: "#OK"},
		{EventEndTime: old, AttackerID: "#LAZY"},
		{EventEndTime: old, AttackerID: "#LAZY"},
	}

	report := AnalyzeAttendance(roster, attacks, nil, 60, DefaultConfig(), testNow)
	require.Len(t, report.Members, 2)

	lazy := report.Members[0]
	assert.Equal(t, "#LAZY", lazy.MemberID)
	// missed both attacks 3 days ago: round(50*0.7 + 15) = 50
	assert.Equal(t, 50, lazy.MissRate)
	assert.Equal(t, 50, lazy.Risk)

	ok := report.Members[1]
	assert.Equal(t, "#OK", ok.MemberID)
	// same miss rate but the misses are 25 days old
	assert.Equal(t, 50, ok.MissRate)
	assert.Equal(t, 35, ok.Risk)

	assert.Equal(t, 50, report.Summary.AvgMissRate)
}

func TestAnalyzeAttendance_NoAttacksAtAllIsClamped(t *testing.T) {
	report := AnalyzeAttendance(rosterFor(daysAgo(2), "#GHOST"), nil, nil, 60, DefaultConfig(), testNow)
	require.Len(t, report.Members, 1)
	assert.Equal(t, 0, report.Members[0].ParticipationRate)
	assert.Equal(t, 100, report.Members[0].MissRate)
	assert.Equal(t, 100, report.Members[0].Risk)
}

func TestAnalyzeAttendance_LeagueFlagFromAttackRows(t *testing.T) {
	event := daysAgo(20)
	attacks := []domain.AttackRecord{{EventEndTime: event, AttackerID: "#P", IsLeagueFormat: true}}

	report := AnalyzeAttendance(rosterFor(event, "#P"), attacks, nil, 60, DefaultConfig(), testNow)
	require.Len(t, report.Members, 1)
	assert.Equal(t, 1, report.Members[0].ExpectedAttacks)
	assert.Equal(t, 0, report.Members[0].MissedAttacks)
}

func TestAnalyzeAttendance_WindowIsClamped(t *testing.T) {
	roster := rosterFor(daysAgo(5), "#P")
	roster = append(roster, rosterFor(daysAgo(100), "#P")...)

	small := AnalyzeAttendance(roster, nil, nil, 1, DefaultConfig(), testNow)
	assert.Equal(t, 7, small.Summary.WindowDays)
	assert.Equal(t, 1, small.Summary.EventsAnalyzed)

	large := AnalyzeAttendance(roster, nil, nil, 1000, DefaultConfig(), testNow)
	assert.Equal(t, 180, large.Summary.WindowDays)
	assert.Equal(t, 2, large.Summary.EventsAnalyzed)
}

func TestAnalyzeAttendance_SimulatedRosters(t *testing.T) {
	f := gofakeit.New(99)

	for round := 0; round < 40; round++ {
		var roster []domain.RosterEntry
		var attacks []domain.AttackRecord
		var events []domain.WarEvent

		numEvents := f.IntRange(0, 8)
		for e := 0; e < numEvents; e++ {
			end := daysAgo(f.IntRange(0, 59))
			league := f.Bool()
			events = append(events, domain.WarEvent{EndTime: end, IsLeagueFormat: league})
			numMembers := f.IntRange(5, 15)
			for m := 0; m < numMembers; m++ {
				id := fmt.Sprintf("#M%d", m)
				roster = append(roster, domain.RosterEntry{EventEndTime: end, MemberID: id})
				// over-attacking is possible in raw data; missed must still floor at zero
				numAttacks := f.IntRange(0, 3)
				for a := 0; a < numAttacks; a++ {
					attacks = append(attacks, domain.AttackRecord{EventEndTime: end, AttackerID: id, Stars: f.IntRange(0, 3)})
				}
			}
		}

		report := AnalyzeAttendance(roster, attacks, events, 60, DefaultConfig(), testNow)
		for _, m := range report.Members {
			assert.GreaterOrEqual(t, m.MissedAttacks, 0)
			assert.LessOrEqual(t, m.MissedAttacks, m.ExpectedAttacks)
			assert.GreaterOrEqual(t, m.Risk, 0)
			assert.LessOrEqual(t, m.Risk, 100)
			assert.Contains(t, []int{0, 100}, m.ParticipationRate)
		}
		for i := 1; i < len(report.Members); i++ {
			assert.GreaterOrEqual(t, report.Members[i-1].Risk, report.Members[i].Risk)
		}
	}
}
