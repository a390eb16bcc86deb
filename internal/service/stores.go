package service

import (
	"context"
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// RosterSource is the live clan and war feed.
type RosterSource interface {
	GetClan(ctx context.Context, clanTag string) (*api.ClanResponse, error)
	GetCurrentWar(ctx context.Context, clanTag string) (*api.WarResponse, error)
	GetLeagueGroup(ctx context.Context, clanTag string) (*api.LeagueGroupResponse, error)
	GetLeagueWar(ctx context.Context, warTag string) (*api.WarResponse, error)
}

type HistoryStore interface {
	UpsertWar(ctx context.Context, event domain.WarEvent, roster []domain.RosterEntry, attacks []domain.AttackRecord) error
	ListEvents(ctx context.Context, clanTag string, since time.Time) ([]domain.WarEvent, error)
	ListRoster(ctx context.Context, clanTag string, since time.Time) ([]domain.RosterEntry, error)
	ListAttacks(ctx context.Context, clanTag string, since time.Time) ([]domain.AttackRecord, error)
}

type SnapshotStore interface {
	UpsertBatch(ctx context.Context, snapshots []domain.ActivitySnapshot) error
	ListSince(ctx context.Context, clanTag string, since time.Time) ([]domain.ActivitySnapshot, error)
	ResolveClan(ctx context.Context, memberTag string) (string, error)
}

type ProfileStore interface {
	UpsertMany(ctx context.Context, profiles []domain.SkillProfile) error
	GetMany(ctx context.Context, memberTags []string) (map[string]domain.SkillProfile, error)
}

type ClanStore interface {
	Upsert(ctx context.Context, clan *domain.Clan) error
	Get(ctx context.Context, tag string) (*domain.Clan, error)
	ListTracked(ctx context.Context) ([]domain.Clan, error)
}
