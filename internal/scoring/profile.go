package scoring

import (
	"sort"
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

type memberTally struct {
	attacks    int
	stars      int
	twoPlus    int
	threeStars int
	days       map[string]struct{}
}

// BuildProfiles derives one SkillProfile per member seen in either row set.
// Rows older than cfg.ProfileWindowDays before now are ignored. The result is
// sorted by member id and stamped with now, so equal input yields equal output.
func BuildProfiles(attacks []domain.AttackRecord, snapshots []domain.ActivitySnapshot, cfg Config, now time.Time) []domain.SkillProfile {
	cfg = cfg.Normalize()
	windowDays := cfg.ProfileWindowDays
	since := now.AddDate(0, 0, -windowDays)

	tallies := make(map[string]*memberTally)
	get := func(id string) *memberTally {
		t, ok := tallies[id]
		if !ok {
			t = &memberTally{days: make(map[string]struct{})}
			tallies[id] = t
		}
		return t
	}

	for _, a := range attacks {
		if a.AttackerID == "" || a.EventEndTime.Before(since) {
			continue
		}
		stars := ClampInt(a.Stars, 0, 3)
		t := get(a.AttackerID)
		t.attacks++
		t.stars += stars
		if stars >= 2 {
			t.twoPlus++
		}
		if stars == 3 {
			t.threeStars++
		}
	}

	for _, s := range snapshots {
		if s.MemberID == "" || s.SnapshotDay.Before(since) {
			continue
		}
		get(s.MemberID).days[s.SnapshotDay.UTC().Format(time.DateOnly)] = struct{}{}
	}

	if len(tallies) == 0 {
		return []domain.SkillProfile{}
	}

	ids := make([]string, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]domain.SkillProfile, 0, len(ids))
	for _, id := range ids {
		t := tallies[id]
		offense := Clamp0100(Round(SafeRatio(t.stars, t.attacks) * 33))
		profiles = append(profiles, domain.SkillProfile{
			MemberID:          id,
			OffenseSkill:      offense,
			CleanupSkill:      Percent(t.twoPlus, t.attacks),
			Clutch:            Percent(t.threeStars, t.attacks),
			Participation:     Percent(len(t.days), windowDays),
			Consistency:       Clamp0100(100 - absInt(50-offense)),
			CapitalEfficiency: cfg.CapitalEfficiency,
			UpdatedAt:         now,
		})
	}
	return profiles
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
