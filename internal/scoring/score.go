package scoring

import (
	"math"
)

const (
	MinWindowDays     = 7
	MaxWindowDays     = 180
	DefaultWindowDays = 60

	MinTeamSize     = 5
	MaxTeamSize     = 50
	DefaultTeamSize = 15
)

// Config holds the tunable parts of the scoring pipeline. Formula weights are fixed.
type Config struct {
	ProfileWindowDays    int `yaml:"profile_window_days"`
	CapitalEfficiency    int `yaml:"capital_efficiency"`
	AttendanceWindowDays int `yaml:"attendance_window_days"`
	RecentMissDays       int `yaml:"recent_miss_days"`
	RecentMissPenalty    int `yaml:"recent_miss_penalty"`
	DefaultTeamSize      int `yaml:"default_team_size"`
}

func DefaultConfig() Config {
	return Config{
		ProfileWindowDays: 90,
		// placeholder until per-member raid contributions are ingested
		CapitalEfficiency:    50,
		AttendanceWindowDays: DefaultWindowDays,
		RecentMissDays:       14,
		RecentMissPenalty:    15,
		DefaultTeamSize:      DefaultTeamSize,
	}
}

// Normalize fills non-positive windows and sizes from DefaultConfig and clamps the
// rest. CapitalEfficiency and RecentMissPenalty keep an explicit zero.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.ProfileWindowDays <= 0 {
		c.ProfileWindowDays = def.ProfileWindowDays
	}
	c.CapitalEfficiency = Clamp0100(c.CapitalEfficiency)
	if c.AttendanceWindowDays <= 0 {
		c.AttendanceWindowDays = def.AttendanceWindowDays
	}
	c.AttendanceWindowDays = ClampWindowDays(c.AttendanceWindowDays)
	if c.RecentMissDays <= 0 {
		c.RecentMissDays = def.RecentMissDays
	}
	c.RecentMissPenalty = max(0, c.RecentMissPenalty)
	if c.DefaultTeamSize <= 0 {
		c.DefaultTeamSize = def.DefaultTeamSize
	}
	c.DefaultTeamSize = ClampTeamSize(c.DefaultTeamSize)
	return c
}

// Round rounds half up. All scored quantities are non-negative before rounding
// except intermediate solver terms, which are clamped first.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundTo rounds half up to the given number of decimals.
func RoundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}

func Clamp0100(x int) int {
	return ClampInt(x, 0, 100)
}

func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func ClampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SafeRatio divides by max(1, den).
func SafeRatio(num, den int) float64 {
	if den < 1 {
		den = 1
	}
	return float64(num) / float64(den)
}

// Percent returns round(100*num/den) clamped to [0,100], dividing by max(1, den).
func Percent(num, den int) int {
	return Clamp0100(Round(float64(100*num) / float64(max(1, den))))
}

// ClampWindowDays maps non-positive input to the default and clamps the rest to [7,180].
func ClampWindowDays(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	return ClampInt(days, MinWindowDays, MaxWindowDays)
}

// ClampTeamSize maps non-positive input to the default and clamps the rest to [5,50].
func ClampTeamSize(n int) int {
	if n <= 0 {
		return DefaultTeamSize
	}
	return ClampInt(n, MinTeamSize, MaxTeamSize)
}

func ExpectedAttacks(isLeagueFormat bool) int {
	if isLeagueFormat {
		return 1
	}
	return 2
}
