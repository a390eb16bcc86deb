package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/db"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

// WarRepository is the history store: war events with their roster and attacks.
type WarRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewWarRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *WarRepository {
	return &WarRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// UpsertWar writes one war event, its roster and its attacks in a single transaction.
func (r *WarRepository) UpsertWar(ctx context.Context, event domain.WarEvent, roster []domain.RosterEntry, attacks []domain.AttackRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()
	endTime := event.EndTime.UTC().Truncate(time.Second)

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	err = qtx.UpsertWarEvent(ctx, db.UpsertWarEventParams{
		ClanTag:        event.ClanTag,
		EndTime:        endTime,
		IsLeagueFormat: event.IsLeagueFormat,
		TeamSize:       int64(event.TeamSize),
		OpponentTag:    event.OpponentTag,
		OpponentName:   event.OpponentName,
		State:          event.State,
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert war event %s/%s: %w", event.ClanTag, endTime, err)
	}

	for i := 0; i < len(roster); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(roster))
		for _, entry := range roster[i:end] {
			err := qtx.UpsertRosterEntry(ctx, db.UpsertRosterEntryParams{
				ClanTag:     event.ClanTag,
				EndTime:     endTime,
				MemberTag:   entry.MemberID,
				MemberName:  entry.MemberName,
				MapPosition: int64(entry.MapPosition),
			})
			if err != nil {
				return fmt.Errorf("failed to upsert roster entry %s: %w", entry.MemberID, err)
			}
		}
	}

	for i := 0; i < len(attacks); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(attacks))
		for _, a := range attacks[i:end] {
			id := a.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			err := qtx.UpsertWarAttack(ctx, db.UpsertWarAttackParams{
				ID:                 id,
				ClanTag:            event.ClanTag,
				EndTime:            endTime,
				AttackerTag:        a.AttackerID,
				DefenderTag:        a.DefenderID,
				Stars:              int64(scoring.ClampInt(a.Stars, 0, 3)),
				DestructionPercent: scoring.ClampFloat(a.DestructionPercent, 0, 100),
				OrderNum:           int64(a.OrderNum),
				IsLeagueFormat:     event.IsLeagueFormat,
				MapPosition:        int64(a.MapPosition),
				CreatedAt:          now,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert attack %s#%d: %w", a.AttackerID, a.OrderNum, err)
			}
		}
	}

	return tx.Commit()
}

func (r *WarRepository) ListEvents(ctx context.Context, clanTag string, since time.Time) ([]domain.WarEvent, error) {
	rows, err := r.queries.ListWarEventsSince(ctx, db.ListWarEventsSinceParams{
		ClanTag: clanTag,
		EndTime: since.UTC(),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.WarEvent, len(rows))
	for i, row := range rows {
		result[i] = domain.WarEvent{
			ClanTag:        row.ClanTag,
			EndTime:        row.EndTime,
			IsLeagueFormat: row.IsLeagueFormat,
			TeamSize:       int(row.TeamSize),
			OpponentTag:    row.OpponentTag,
			OpponentName:   row.OpponentName,
			State:          row.State,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		}
	}
	return result, nil
}

func (r *WarRepository) ListRoster(ctx context.Context, clanTag string, since time.Time) ([]domain.RosterEntry, error) {
	rows, err := r.queries.ListRosterSince(ctx, db.ListRosterSinceParams{
		ClanTag: clanTag,
		EndTime: since.UTC(),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.RosterEntry, len(rows))
	for i, row := range rows {
		result[i] = domain.RosterEntry{
			EventEndTime: row.EndTime,
			ClanTag:      row.ClanTag,
			MemberID:     row.MemberTag,
			MemberName:   row.MemberName,
			MapPosition:  int(row.MapPosition),
		}
	}
	return result, nil
}

func (r *WarRepository) ListAttacks(ctx context.Context, clanTag string, since time.Time) ([]domain.AttackRecord, error) {
	rows, err := r.queries.ListWarAttacksSince(ctx, db.ListWarAttacksSinceParams{
		ClanTag: clanTag,
		EndTime: since.UTC(),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.AttackRecord, len(rows))
	for i, row := range rows {
		result[i] = domain.AttackRecord{
			ID:                 row.ID,
			ClanTag:            row.ClanTag,
			EventEndTime:       row.EndTime,
			AttackerID:         row.AttackerTag,
			DefenderID:         row.DefenderTag,
			Stars:              int(row.Stars),
			DestructionPercent: row.DestructionPercent,
			OrderNum:           int(row.OrderNum),
			IsLeagueFormat:     row.IsLeagueFormat,
			MapPosition:        int(row.MapPosition),
			CreatedAt:          row.CreatedAt,
		}
	}
	return result, nil
}
