package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/db"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

type ClanRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewClanRepository(queries *db.Queries, logger zerolog.Logger) *ClanRepository {
	return &ClanRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *ClanRepository) Upsert(ctx context.Context, clan *domain.Clan) error {
	now := time.Now().UTC()
	if clan.CreatedAt.IsZero() {
		clan.CreatedAt = now
	}
	clan.UpdatedAt = now

	return r.queries.UpsertClan(ctx, db.UpsertClanParams{
		Tag:       clan.Tag,
		Name:      clan.Name,
		Tracked:   clan.Tracked,
		CreatedAt: clan.CreatedAt.UTC(),
		UpdatedAt: clan.UpdatedAt,
	})
}

// Get returns nil without error when the clan is unknown.
func (r *ClanRepository) Get(ctx context.Context, tag string) (*domain.Clan, error) {
	row, err := r.queries.GetClan(ctx, tag)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainClan(row), nil
}

func (r *ClanRepository) ListTracked(ctx context.Context) ([]domain.Clan, error) {
	rows, err := r.queries.ListTrackedClans(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Clan, len(rows))
	for i, row := range rows {
		result[i] = *toDomainClan(row)
	}
	return result, nil
}

func toDomainClan(row db.Clan) *domain.Clan {
	return &domain.Clan{
		Tag:       row.Tag,
		Name:      row.Name,
		Tracked:   row.Tracked,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
