package scoring

import (
	"math"
	"sort"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// LineupComposite weights sum to 1.0.
func LineupComposite(p domain.SkillProfile) int {
	return Round(float64(p.OffenseSkill)*0.4 +
		float64(p.Consistency)*0.25 +
		float64(p.Clutch)*0.2 +
		float64(p.Participation)*0.15)
}

func openerKey(p domain.SkillProfile) float64 {
	return float64(p.OffenseSkill)*0.7 + float64(p.Clutch)*0.3
}

func cleanupKey(p domain.SkillProfile) float64 {
	return float64(p.CleanupSkill)*0.6 + float64(p.Consistency)*0.4
}

// SpecialistCount is max(3, ceil(teamSize*0.2)).
func SpecialistCount(teamSize int) int {
	return max(3, int(math.Ceil(float64(teamSize)*0.2)))
}

// SelectLineup ranks members by composite score. Members without a profile
// rank with all-zero sub-scores. Openers and cleanup specialists are ranked
// independently over every member, not only the starting lineup.
func SelectLineup(members []domain.LiveMember, profiles map[string]domain.SkillProfile, teamSize int) domain.Lineup {
	teamSize = ClampTeamSize(teamSize)

	entries := make([]domain.LineupEntry, len(members))
	for i, m := range members {
		p, ok := profiles[m.ID]
		if !ok {
			p = domain.SkillProfile{MemberID: m.ID}
		}
		entries[i] = domain.LineupEntry{Member: m, Profile: p, Composite: LineupComposite(p)}
	}

	ranked := append([]domain.LineupEntry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Composite > ranked[j].Composite
	})

	cut := min(teamSize, len(ranked))
	lineup := domain.Lineup{
		TeamSize: teamSize,
		Lineup:   ranked[:cut:cut],
		Bench:    append([]domain.LineupEntry{}, ranked[cut:]...),
	}

	n := SpecialistCount(teamSize)
	lineup.Openers = topBy(entries, n, openerKey)
	lineup.CleanupSpecialists = topBy(entries, n, cleanupKey)
	return lineup
}

func topBy(entries []domain.LineupEntry, n int, key func(domain.SkillProfile) float64) []domain.LineupEntry {
	ranked := append([]domain.LineupEntry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i].Profile) > key(ranked[j].Profile)
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n:n]
}
