package scoring

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

func members(n int) []domain.LiveMember {
	out := make([]domain.LiveMember, n)
	for i := range out {
		out[i] = domain.LiveMember{ID: fmt.Sprintf("#M%02d", i), Name: fmt.Sprintf("member %d", i), TownHallLevel: 14, MapPosition: i + 1}
	}
	return out
}

func ids(entries []domain.LineupEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Member.ID
	}
	return out
}

func TestLineupComposite(t *testing.T) {
	p := domain.SkillProfile{OffenseSkill: 80, Consistency: 70, Clutch: 50, Participation: 40}
	// 32 + 17.5 + 10 + 6 = 65.5
	assert.Equal(t, 66, LineupComposite(p))
	assert.Equal(t, 100, LineupComposite(domain.SkillProfile{OffenseSkill: 100, Consistency: 100, Clutch: 100, Participation: 100}))
	assert.Equal(t, 0, LineupComposite(domain.SkillProfile{}))
}

func TestSpecialistCount(t *testing.T) {
	assert.Equal(t, 3, SpecialistCount(5))
	assert.Equal(t, 3, SpecialistCount(15))
	assert.Equal(t, 4, SpecialistCount(16))
	assert.Equal(t, 10, SpecialistCount(50))
}

func TestSelectLineup_FewerMembersThanTeamSize(t *testing.T) {
	ms := members(10)
	got := SelectLineup(ms, map[string]domain.SkillProfile{}, 15)

	assert.Equal(t, 15, got.TeamSize)
	assert.Len(t, got.Lineup, 10)
	assert.Empty(t, got.Bench)
	assert.Len(t, got.Openers, 3)
	assert.Len(t, got.CleanupSpecialists, 3)
}

func TestSelectLineup_RanksAndBenches(t *testing.T) {
	ms := members(7)
	profiles := map[string]domain.SkillProfile{
		"#M00": {OffenseSkill: 10, Consistency: 10},
		"#M01": {OffenseSkill: 90, Consistency: 90, Clutch: 80, Participation: 90},
		"#M02": {OffenseSkill: 60, Consistency: 90, Clutch: 20, Participation: 50, CleanupSkill: 100},
		"#M03": {OffenseSkill: 99, Consistency: 51, Clutch: 100, Participation: 10},
		// #M04 has no profile and ranks as all zeros
		"#M05": {OffenseSkill: 40, Consistency: 90, Clutch: 0, Participation: 100, CleanupSkill: 90},
		"#M06": {OffenseSkill: 50, Consistency: 100, Clutch: 10, Participation: 20},
	}

	got := SelectLineup(ms, profiles, 5)

	// composites: M01=88, M03=74, M02=58, M05=54, M06=50, M00=7, M04=0
	assert.Equal(t, []string{"#M01", "#M03", "#M02", "#M05", "#M06"}, ids(got.Lineup))
	assert.Equal(t, []string{"#M00", "#M04"}, ids(got.Bench))
	assert.Equal(t, 0, got.Bench[1].Composite)

	// offense*0.7+clutch*0.3: M03=99.3, M01=87, M02=48
	assert.Equal(t, []string{"#M03", "#M01", "#M02"}, ids(got.Openers))
	// cleanup*0.6+consistency*0.4: M02=96, M05=90, then M06=40 ahead of M01=36
	assert.Equal(t, []string{"#M02", "#M05", "#M06"}, ids(got.CleanupSpecialists))
}

func TestSelectLineup_TeamSizeClamped(t *testing.T) {
	got := SelectLineup(members(60), nil, 100)
	assert.Equal(t, 50, got.TeamSize)
	assert.Len(t, got.Lineup, 50)
	assert.Len(t, got.Bench, 10)
	assert.Len(t, got.Openers, 10)

	got = SelectLineup(members(8), nil, 2)
	assert.Equal(t, 5, got.TeamSize)
	assert.Len(t, got.Lineup, 5)
	assert.Len(t, got.Bench, 3)
}

func TestSelectLineup_StableOnTies(t *testing.T) {
	got := SelectLineup(members(6), nil, 5)
	require.Len(t, got.Lineup, 5)
	assert.Equal(t, []string{"#M00", "#M01", "#M02", "#M03", "#M04"}, ids(got.Lineup))
}

func TestComposites_StayInRange(t *testing.T) {
	f := gofakeit.New(3)
	for i := 0; i < 500; i++ {
		p := domain.SkillProfile{
			OffenseSkill:  f.IntRange(0, 100),
			CleanupSkill:  f.IntRange(0, 100),
			Consistency:   f.IntRange(0, 100),
			Clutch:        f.IntRange(0, 100),
			Participation: f.IntRange(0, 100),
		}
		for _, v := range []int{LineupComposite(p), AttackerComposite(p)} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}
