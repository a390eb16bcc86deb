package scoring

import (
	"sort"
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

type attendanceTally struct {
	name      string
	wars      int
	expected  int
	used      int
	missed    int
	lastEvent time.Time
	missedAt  []time.Time
}

type attackKey struct {
	event    int64
	attacker string
}

// AnalyzeAttendance counts missed attacks per member over the trailing window
// and scores each member's risk of missing attacks in the next war.
//
// The league flag of an event comes from its WarEvent row; when no such row
// exists, any attack of that event carrying the flag decides it.
func AnalyzeAttendance(roster []domain.RosterEntry, attacks []domain.AttackRecord, events []domain.WarEvent, windowDays int, cfg Config, now time.Time) domain.AttendanceReport {
	cfg = cfg.Normalize()
	windowDays = ClampWindowDays(windowDays)
	since := now.AddDate(0, 0, -windowDays)
	recentSince := now.AddDate(0, 0, -cfg.RecentMissDays)

	league := make(map[int64]bool)
	for _, a := range attacks {
		if a.IsLeagueFormat {
			league[a.EventEndTime.Unix()] = true
		}
	}
	for _, e := range events {
		league[e.EndTime.Unix()] = e.IsLeagueFormat
	}

	used := make(map[attackKey]int)
	for _, a := range attacks {
		used[attackKey{event: a.EventEndTime.Unix(), attacker: a.AttackerID}]++
	}

	tallies := make(map[string]*attendanceTally)
	distinctEvents := make(map[int64]struct{})
	seen := make(map[attackKey]struct{})

	for _, r := range roster {
		if r.EventEndTime.Before(since) || r.EventEndTime.After(now) {
			continue
		}
		key := attackKey{event: r.EventEndTime.Unix(), attacker: r.MemberID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		distinctEvents[key.event] = struct{}{}

		expected := ExpectedAttacks(league[key.event])
		u := used[key]
		missed := max(0, expected-u)

		t, ok := tallies[r.MemberID]
		if !ok {
			t = &attendanceTally{}
			tallies[r.MemberID] = t
		}
		if r.MemberName != "" {
			t.name = r.MemberName
		}
		t.wars++
		t.expected += expected
		t.used += u
		t.missed += missed
		if r.EventEndTime.After(t.lastEvent) {
			t.lastEvent = r.EventEndTime
		}
		if missed > 0 {
			t.missedAt = append(t.missedAt, r.EventEndTime)
		}
	}

	members := make([]domain.AttendanceSummary, 0, len(tallies))
	totalMissRate := 0
	for id, t := range tallies {
		participation := 0
		if t.used > 0 {
			participation = 100
		}
		missRate := Percent(t.missed, t.expected)
		penalty := 0
		for _, at := range t.missedAt {
			if !at.Before(recentSince) {
				penalty = cfg.RecentMissPenalty
				break
			}
		}
		risk := Clamp0100(Round(float64(missRate)*0.7 + float64(100-participation)*0.3 + float64(penalty)))

		totalMissRate += missRate
		members = append(members, domain.AttendanceSummary{
			MemberID:          id,
			MemberName:        t.name,
			WarsCount:         t.wars,
			ExpectedAttacks:   t.expected,
			UsedAttacks:       t.used,
			MissedAttacks:     t.missed,
			ParticipationRate: participation,
			MissRate:          missRate,
			Risk:              risk,
			LastEventTime:     t.lastEvent,
		})
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Risk != members[j].Risk {
			return members[i].Risk > members[j].Risk
		}
		return members[i].MemberID < members[j].MemberID
	})

	avg := 0
	if len(members) > 0 {
		avg = Round(float64(totalMissRate) / float64(len(members)))
	}

	return domain.AttendanceReport{
		Members: members,
		Summary: domain.AttendanceOverview{
			WindowDays:      windowDays,
			EventsAnalyzed:  len(distinctEvents),
			MembersAnalyzed: len(members),
			AvgMissRate:     avg,
		},
	}
}
