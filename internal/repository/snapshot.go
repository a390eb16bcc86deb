package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/db"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

type SnapshotRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// SnapshotDay truncates t to its UTC calendar day.
func SnapshotDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UpsertBatch writes snapshots in chunks, one transaction per chunk.
// A second snapshot for the same member and day replaces the first.
func (r *SnapshotRepository) UpsertBatch(ctx context.Context, snapshots []domain.ActivitySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := 0; i < len(snapshots); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(snapshots))
		if err := r.upsertChunk(ctx, snapshots[i:end], now); err != nil {
			return err
		}
	}

	r.logger.Debug().Int("count", len(snapshots)).Msg("activity snapshots upserted")
	return nil
}

func (r *SnapshotRepository) upsertChunk(ctx context.Context, chunk []domain.ActivitySnapshot, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	for _, s := range chunk {
		id := s.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		err := qtx.UpsertActivitySnapshot(ctx, db.UpsertActivitySnapshotParams{
			ID:                id,
			SnapshotDay:       SnapshotDay(s.SnapshotDay),
			ClanTag:           s.ClanTag,
			MemberTag:         s.MemberID,
			MemberName:        s.MemberName,
			Role:              s.Role,
			TownHallLevel:     int64(s.TownHallLevel),
			Trophies:          int64(s.Trophies),
			DonationsGiven:    int64(s.DonationsGiven),
			DonationsReceived: int64(s.DonationsReceived),
			CreatedAt:         now,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert snapshot for %s: %w", s.MemberID, err)
		}
	}

	return tx.Commit()
}

func (r *SnapshotRepository) ListSince(ctx context.Context, clanTag string, since time.Time) ([]domain.ActivitySnapshot, error) {
	rows, err := r.queries.ListActivitySnapshotsSince(ctx, db.ListActivitySnapshotsSinceParams{
		ClanTag:     clanTag,
		SnapshotDay: SnapshotDay(since),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.ActivitySnapshot, len(rows))
	for i, row := range rows {
		result[i] = domain.ActivitySnapshot{
			ID:                row.ID,
			SnapshotDay:       row.SnapshotDay,
			ClanTag:           row.ClanTag,
			MemberID:          row.MemberTag,
			MemberName:        row.MemberName,
			Role:              row.Role,
			TownHallLevel:     int(row.TownHallLevel),
			Trophies:          int(row.Trophies),
			DonationsGiven:    int(row.DonationsGiven),
			DonationsReceived: int(row.DonationsReceived),
			CreatedAt:         row.CreatedAt,
		}
	}
	return result, nil
}

// ResolveClan returns the clan of the member's most recent snapshot, or "" when the member was never seen.
func (r *SnapshotRepository) ResolveClan(ctx context.Context, memberTag string) (string, error) {
	clanTag, err := r.queries.GetLatestClanForMember(ctx, memberTag)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return clanTag, nil
}
