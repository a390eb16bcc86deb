package domain

import (
	"time"
)

type Clan struct {
	Tag       string
	Name      string
	Tracked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WarEvent is the per-war metadata stored next to attacks and roster rows.
type WarEvent struct {
	ClanTag        string
	EndTime        time.Time
	IsLeagueFormat bool
	TeamSize       int
	OpponentTag    string
	OpponentName   string
	State          string // "inWar", "warEnded"
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type AttackRecord struct {
	ID                 string // nanoid
	ClanTag            string
	EventEndTime       time.Time
	AttackerID         string
	DefenderID         string // empty when unknown
	Stars              int    // 0-3
	DestructionPercent float64
	OrderNum           int
	IsLeagueFormat     bool
	MapPosition        int // 0 when unknown
	CreatedAt          time.Time
}

type RosterEntry struct {
	EventEndTime time.Time
	ClanTag      string
	MemberID     string
	MemberName   string
	MapPosition  int
}

type ActivitySnapshot struct {
	ID                string // nanoid
	SnapshotDay       time.Time
	ClanTag           string
	MemberID          string
	MemberName        string
	Role              string
	TownHallLevel     int
	Trophies          int
	DonationsGiven    int
	DonationsReceived int
	CreatedAt         time.Time
}

type SkillProfile struct {
	MemberID          string
	OffenseSkill      int
	CleanupSkill      int
	Consistency       int
	Clutch            int
	Participation     int
	CapitalEfficiency int
	UpdatedAt         time.Time
}

type AttendanceSummary struct {
	MemberID          string
	MemberName        string
	WarsCount         int
	ExpectedAttacks   int
	UsedAttacks       int
	MissedAttacks     int
	ParticipationRate int
	MissRate          int
	Risk              int
	LastEventTime     time.Time
}

type AttendanceOverview struct {
	WindowDays      int
	EventsAnalyzed  int
	MembersAnalyzed int
	AvgMissRate     int
}

type AttendanceReport struct {
	Members []AttendanceSummary
	Summary AttendanceOverview
}

// LiveMember is a member of either side of the war currently in progress.
type LiveMember struct {
	ID            string
	Name          string
	TownHallLevel int
	Role          string
	MapPosition   int
}

type LiveWar struct {
	ClanTag         string
	State           string
	TeamSize        int // 0 when the upstream did not declare one
	IsLeagueFormat  bool
	EndTime         time.Time
	OpponentTag     string
	OpponentName    string
	OurMembers      []LiveMember
	OpponentMembers []LiveMember
}

type LineupEntry struct {
	Member    LiveMember
	Profile   SkillProfile
	Composite int
}

type Lineup struct {
	TeamSize           int
	Lineup             []LineupEntry
	Bench              []LineupEntry
	Openers            []LineupEntry
	CleanupSpecialists []LineupEntry
}

type AssignmentRationale struct {
	THDiff  int
	Offense int
	Clutch  int
}

type Assignment struct {
	Attacker       LiveMember
	Defender       LiveMember
	PredictedStars float64
	Rationale      AssignmentRationale
}

type AssignmentPlan struct {
	TeamSize    int
	Assignments []Assignment
	Alternates  []LiveMember
}

// BatchResult counts a multi-clan batch run. Failed items are skipped, never fatal.
type BatchResult struct {
	Processed int
	Succeeded int
	Failed    int
}

// SyncResult reports what one ingest pass wrote for a clan.
type SyncResult struct {
	ClanTag    string
	Members    int
	Wars       int
	Attacks    int
	WarSkipped string // why the live war was not stored, empty otherwise
}
