package scoring

import (
	"math"
	"sort"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// AttackerComposite weights sum to 1.0.
func AttackerComposite(p domain.SkillProfile) int {
	return Round(float64(p.OffenseSkill)*0.5 + float64(p.Clutch)*0.3 + float64(p.Consistency)*0.2)
}

// MatchupScore is the greedy selection key for one attacker/defender pair.
func MatchupScore(p domain.SkillProfile, thDiff int) float64 {
	return float64(p.OffenseSkill)*1.0 + float64(p.Clutch)*0.2 + float64(thDiff)*15
}

// PredictStars is clamp(1.5 + (offense-50)/50 + thDiff*0.25, 0, 3) at one decimal.
func PredictStars(offense, thDiff int) float64 {
	raw := 1.5 + float64(offense-50)/50 + float64(thDiff)*0.25
	return RoundTo(ClampFloat(raw, 0, 3), 1)
}

// AssignTargets pairs attackers to defenders with a single greedy pass.
//
// Attackers are processed by descending composite; each takes the unassigned
// defender with the highest matchup score, scanning defenders by town hall
// descending then map position ascending and keeping the earlier defender on
// equal score. The result is intentionally not a globally optimal matching.
// Attackers left without a defender are omitted.
func AssignTargets(war domain.LiveWar, profiles map[string]domain.SkillProfile) domain.AssignmentPlan {
	teamSize := war.TeamSize
	if teamSize <= 0 {
		teamSize = min(len(war.OurMembers), len(war.OpponentMembers))
	}

	type attacker struct {
		member    domain.LiveMember
		profile   domain.SkillProfile
		composite int
	}
	attackers := make([]attacker, len(war.OurMembers))
	for i, m := range war.OurMembers {
		p, ok := profiles[m.ID]
		if !ok {
			p = domain.SkillProfile{MemberID: m.ID}
		}
		attackers[i] = attacker{member: m, profile: p, composite: AttackerComposite(p)}
	}
	sort.SliceStable(attackers, func(i, j int) bool {
		return attackers[i].composite > attackers[j].composite
	})
	if len(attackers) > teamSize {
		attackers = attackers[:teamSize]
	}

	defenders := append([]domain.LiveMember(nil), war.OpponentMembers...)
	sort.SliceStable(defenders, func(i, j int) bool {
		if defenders[i].TownHallLevel != defenders[j].TownHallLevel {
			return defenders[i].TownHallLevel > defenders[j].TownHallLevel
		}
		return defenders[i].MapPosition < defenders[j].MapPosition
	})

	taken := make([]bool, len(defenders))
	plan := domain.AssignmentPlan{TeamSize: teamSize, Assignments: []domain.Assignment{}}

	for _, a := range attackers {
		best := -1
		bestScore := math.Inf(-1)
		for i, d := range defenders {
			if taken[i] {
				continue
			}
			score := MatchupScore(a.profile, a.member.TownHallLevel-d.TownHallLevel)
			if score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best < 0 {
			continue
		}
		taken[best] = true
		d := defenders[best]
		thDiff := a.member.TownHallLevel - d.TownHallLevel
		plan.Assignments = append(plan.Assignments, domain.Assignment{
			Attacker:       a.member,
			Defender:       d,
			PredictedStars: PredictStars(a.profile.OffenseSkill, thDiff),
			Rationale: domain.AssignmentRationale{
				THDiff:  thDiff,
				Offense: a.profile.OffenseSkill,
				Clutch:  a.profile.Clutch,
			},
		})
	}

	room := teamSize - len(plan.Assignments)
	plan.Alternates = []domain.LiveMember{}
	for i, d := range defenders {
		if len(plan.Alternates) >= room {
			break
		}
		if !taken[i] {
			plan.Alternates = append(plan.Alternates, d)
		}
	}
	return plan
}
