package scoring

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestBuildProfiles_EmptyWindow(t *testing.T) {
	got := BuildProfiles(nil, nil, DefaultConfig(), testNow)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildProfiles(t *testing.T) {
	war := daysAgo(10)
	attacks := []domain.AttackRecord{
		{EventEndTime: war, AttackerID: "#A", Stars: 3},
		{EventEndTime: war, AttackerID: "#A", Stars: 3},
		{EventEndTime: daysAgo(20), AttackerID: "#A", Stars: 2},
		{EventEndTime: daysAgo(20), AttackerID: "#A", Stars: 0},
		// outside the 90 day window
		{EventEndTime: daysAgo(120), AttackerID: "#A", Stars: 0},
	}
	snapshots := []domain.ActivitySnapshot{
		{SnapshotDay: daysAgo(1), MemberID: "#A"},
		{SnapshotDay: daysAgo(2), MemberID: "#A"},
		{SnapshotDay: daysAgo(2), MemberID: "#A"},
		{SnapshotDay: daysAgo(3), MemberID: "#A"},
		{SnapshotDay: daysAgo(5), MemberID: "#B"},
	}

	got := BuildProfiles(attacks, snapshots, DefaultConfig(), testNow)

	want := []domain.SkillProfile{
		{
			MemberID:          "#A",
			OffenseSkill:      66,
			CleanupSkill:      75,
			Clutch:            50,
			Participation:     3,
			Consistency:       84,
			CapitalEfficiency: 50,
			UpdatedAt:         testNow,
		},
		{
			MemberID:          "#B",
			OffenseSkill:      0,
			CleanupSkill:      0,
			Clutch:            0,
			Participation:     1,
			Consistency:       50,
			CapitalEfficiency: 50,
			UpdatedAt:         testNow,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildProfiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProfiles_AttacksWithoutSnapshots(t *testing.T) {
	attacks := []domain.AttackRecord{
		{EventEndTime: daysAgo(1), AttackerID: "#C", Stars: 3},
	}
	got := BuildProfiles(attacks, nil, DefaultConfig(), testNow)
	require.Len(t, got, 1)
	assert.Equal(t, 99, got[0].OffenseSkill)
	assert.Equal(t, 100, got[0].Clutch)
	assert.Equal(t, 0, got[0].Participation)
	assert.Equal(t, 51, got[0].Consistency)
}

func TestBuildProfiles_CapitalEfficiencyConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapitalEfficiency = 72
	got := BuildProfiles([]domain.AttackRecord{{EventEndTime: daysAgo(1), AttackerID: "#A", Stars: 1}}, nil, cfg, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, 72, got[0].CapitalEfficiency)
}

func TestBuildProfiles_RatiosRoundOnScaledNumerator(t *testing.T) {
	// 20 wars with two attacks each, 23 of them three stars
	attacks := make([]domain.AttackRecord, 40)
	for i := range attacks {
		attacks[i] = domain.AttackRecord{EventEndTime: daysAgo(1 + i/2), AttackerID: "#P"}
		if i < 23 {
			attacks[i].Stars = 3
		}
	}

	got := BuildProfiles(attacks, nil, DefaultConfig(), testNow)
	require.Len(t, got, 1)
	assert.Equal(t, 58, got[0].Clutch)
	assert.Equal(t, 58, got[0].CleanupSkill)
	assert.Equal(t, 57, got[0].OffenseSkill)
}

func TestBuildProfiles_ZeroCapitalEfficiency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapitalEfficiency = 0
	got := BuildProfiles([]domain.AttackRecord{{EventEndTime: daysAgo(1), AttackerID: "#A", Stars: 1}}, nil, cfg, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].CapitalEfficiency)
}

func randomAttacks(f *gofakeit.Faker, members []string, n int) []domain.AttackRecord {
	attacks := make([]domain.AttackRecord, n)
	for i := range attacks {
		attacks[i] = domain.AttackRecord{
			EventEndTime:       daysAgo(f.IntRange(0, 89)),
			AttackerID:         members[f.IntRange(0, len(members)-1)],
			Stars:              f.IntRange(0, 3),
			DestructionPercent: f.Float64Range(0, 100),
			IsLeagueFormat:     f.Bool(),
		}
	}
	return attacks
}

func TestBuildProfiles_SubScoresInRange(t *testing.T) {
	f := gofakeit.New(42)
	members := []string{"#A", "#B", "#C", "#D", "#E"}

	for round := 0; round < 50; round++ {
		attacks := randomAttacks(f, members, f.IntRange(0, 60))
		snapshots := make([]domain.ActivitySnapshot, f.IntRange(0, 200))
		for i := range snapshots {
			snapshots[i] = domain.ActivitySnapshot{
				SnapshotDay: daysAgo(f.IntRange(0, 89)),
				MemberID:    members[f.IntRange(0, len(members)-1)],
			}
		}

		for _, p := range BuildProfiles(attacks, snapshots, DefaultConfig(), testNow) {
			for name, v := range map[string]int{
				"offense":       p.OffenseSkill,
				"cleanup":       p.CleanupSkill,
				"clutch":        p.Clutch,
				"consistency":   p.Consistency,
				"participation": p.Participation,
			} {
				assert.GreaterOrEqual(t, v, 0, "%s for %s", name, p.MemberID)
				assert.LessOrEqual(t, v, 100, "%s for %s", name, p.MemberID)
			}
		}
	}
}

func TestBuildProfiles_Deterministic(t *testing.T) {
	f := gofakeit.New(7)
	members := []string{"#A", "#B", "#C"}
	attacks := randomAttacks(f, members, 40)

	first := BuildProfiles(attacks, nil, DefaultConfig(), testNow)

	shuffled := append([]domain.AttackRecord(nil), attacks...)
	f.ShuffleAnySlice(shuffled)
	second := BuildProfiles(shuffled, nil, DefaultConfig(), testNow)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompute differs (-first +second):\n%s", diff)
	}
}
