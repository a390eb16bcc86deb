package scoring

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

func side(prefix string, ths ...int) []domain.LiveMember {
	out := make([]domain.LiveMember, len(ths))
	for i, th := range ths {
		out[i] = domain.LiveMember{ID: fmt.Sprintf("%s%d", prefix, i+1), TownHallLevel: th, MapPosition: i + 1}
	}
	return out
}

func TestPredictStars(t *testing.T) {
	assert.Equal(t, 2.6, PredictStars(80, 2))
	assert.Equal(t, 1.5, PredictStars(50, 0))
	assert.Equal(t, 0.0, PredictStars(0, -10))
	assert.Equal(t, 3.0, PredictStars(100, 5))
}

func TestAssignTargets_SinglePair(t *testing.T) {
	war := domain.LiveWar{
		OurMembers:      []domain.LiveMember{{ID: "#A", TownHallLevel: 14, MapPosition: 1}},
		OpponentMembers: []domain.LiveMember{{ID: "#D", TownHallLevel: 12, MapPosition: 1}},
	}
	profiles := map[string]domain.SkillProfile{"#A": {MemberID: "#A", OffenseSkill: 80, Clutch: 50}}

	assert.Equal(t, 120.0, MatchupScore(profiles["#A"], 2))

	plan := AssignTargets(war, profiles)
	require.Len(t, plan.Assignments, 1)
	a := plan.Assignments[0]
	assert.Equal(t, "#A", a.Attacker.ID)
	assert.Equal(t, "#D", a.Defender.ID)
	assert.Equal(t, 2.6, a.PredictedStars)
	assert.Equal(t, domain.AssignmentRationale{THDiff: 2, Offense: 80, Clutch: 50}, a.Rationale)
	assert.Equal(t, 1, plan.TeamSize)
	assert.Empty(t, plan.Alternates)
}

func TestAssignTargets_GreedyOrderIsNotOptimal(t *testing.T) {
	war := domain.LiveWar{
		OurMembers: []domain.LiveMember{
			{ID: "#WEAK", TownHallLevel: 10, MapPosition: 2},
			{ID: "#STRONG", TownHallLevel: 14, MapPosition: 1},
		},
		OpponentMembers: []domain.LiveMember{
			{ID: "#LOW", TownHallLevel: 9, MapPosition: 2},
			{ID: "#HIGH", TownHallLevel: 14, MapPosition: 1},
		},
	}
	profiles := map[string]domain.SkillProfile{
		"#STRONG": {OffenseSkill: 90, Clutch: 60, Consistency: 60},
		"#WEAK":   {OffenseSkill: 40, Clutch: 10, Consistency: 90},
	}

	plan := AssignTargets(war, profiles)
	require.Len(t, plan.Assignments, 2)

	// the strongest attacker goes first and grabs the biggest town hall advantage
	assert.Equal(t, "#STRONG", plan.Assignments[0].Attacker.ID)
	assert.Equal(t, "#LOW", plan.Assignments[0].Defender.ID)
	assert.Equal(t, 5, plan.Assignments[0].Rationale.THDiff)
	assert.Equal(t, 3.0, plan.Assignments[0].PredictedStars)

	assert.Equal(t, "#WEAK", plan.Assignments[1].Attacker.ID)
	assert.Equal(t, "#HIGH", plan.Assignments[1].Defender.ID)
	assert.Equal(t, -4, plan.Assignments[1].Rationale.THDiff)
	// 1.5 - 0.2 - 1.0
	assert.Equal(t, 0.3, plan.Assignments[1].PredictedStars)
}

func TestAssignTargets_TieKeepsEarlierDefender(t *testing.T) {
	war := domain.LiveWar{
		OurMembers: []domain.LiveMember{{ID: "#A", TownHallLevel: 13}},
		OpponentMembers: []domain.LiveMember{
			{ID: "#POS7", TownHallLevel: 13, MapPosition: 7},
			{ID: "#POS3", TownHallLevel: 13, MapPosition: 3},
			{ID: "#POS5", TownHallLevel: 13, MapPosition: 5},
		},
	}

	plan := AssignTargets(war, nil)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "#POS3", plan.Assignments[0].Defender.ID)
	assert.Equal(t, 1, plan.TeamSize)
	assert.Empty(t, plan.Alternates)
}

func TestAssignTargets_DeclaredTeamSizeAndAlternates(t *testing.T) {
	war := domain.LiveWar{
		TeamSize:        15,
		OurMembers:      side("#O", 14, 14, 13, 13, 12, 12, 11, 11, 10, 10),
		OpponentMembers: side("#E", 14, 14, 14, 13, 13, 13, 12, 12, 12, 11, 11, 11, 10, 10, 10, 9, 9, 9, 8, 8),
	}

	plan := AssignTargets(war, nil)
	assert.Len(t, plan.Assignments, 10)
	assert.Len(t, plan.Alternates, 5)

	used := map[string]bool{}
	for _, a := range plan.Assignments {
		used[a.Defender.ID] = true
	}
	for _, d := range plan.Alternates {
		assert.False(t, used[d.ID], "alternate %s was also assigned", d.ID)
	}
}

func TestAssignTargets_FallbackTeamSize(t *testing.T) {
	war := domain.LiveWar{
		OurMembers:      side("#O", 14, 14, 13, 13, 12, 12, 11, 11, 10, 10),
		OpponentMembers: side("#E", 14, 14, 14, 13, 13, 13, 12, 12, 12, 11, 11, 11, 10, 10, 10, 9, 9, 9, 8, 8),
	}

	plan := AssignTargets(war, nil)
	assert.Equal(t, 10, plan.TeamSize)
	assert.Len(t, plan.Assignments, 10)
	assert.Empty(t, plan.Alternates)
}

func TestAssignTargets_MoreAttackersThanDefenders(t *testing.T) {
	war := domain.LiveWar{
		TeamSize:        5,
		OurMembers:      side("#O", 14, 13, 12, 11, 10),
		OpponentMembers: side("#E", 12, 11, 10),
	}

	plan := AssignTargets(war, nil)
	assert.Len(t, plan.Assignments, 3)
	assert.Empty(t, plan.Alternates)
}

func TestAssignTargets_NeverReusesDefender(t *testing.T) {
	f := gofakeit.New(2026)

	for round := 0; round < 100; round++ {
		ours := make([]domain.LiveMember, f.IntRange(0, 50))
		profiles := map[string]domain.SkillProfile{}
		for i := range ours {
			id := fmt.Sprintf("#O%d", i)
			ours[i] = domain.LiveMember{ID: id, TownHallLevel: f.IntRange(8, 17), MapPosition: i + 1}
			if f.Bool() {
				profiles[id] = domain.SkillProfile{
					OffenseSkill: f.IntRange(0, 100),
					Clutch:       f.IntRange(0, 100),
					Consistency:  f.IntRange(0, 100),
				}
			}
		}
		theirs := make([]domain.LiveMember, f.IntRange(0, 50))
		for i := range theirs {
			theirs[i] = domain.LiveMember{ID: fmt.Sprintf("#E%d", i), TownHallLevel: f.IntRange(8, 17), MapPosition: i + 1}
		}

		war := domain.LiveWar{OurMembers: ours, OpponentMembers: theirs}
		if f.Bool() {
			war.TeamSize = f.IntRange(5, 50)
		}

		plan := AssignTargets(war, profiles)

		seen := map[string]bool{}
		for _, a := range plan.Assignments {
			assert.False(t, seen[a.Defender.ID], "defender %s assigned twice", a.Defender.ID)
			seen[a.Defender.ID] = true
			assert.GreaterOrEqual(t, a.PredictedStars, 0.0)
			assert.LessOrEqual(t, a.PredictedStars, 3.0)
		}
		assert.LessOrEqual(t, len(plan.Assignments), min(len(ours), len(theirs)))
		assert.LessOrEqual(t, len(plan.Assignments)+len(plan.Alternates), max(plan.TeamSize, 0))
	}
}
