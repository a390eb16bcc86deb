package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/db"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

type SkillProfileRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSkillProfileRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SkillProfileRepository {
	return &SkillProfileRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// UpsertMany overwrites each profile by member tag. Profiles keep no history.
func (r *SkillProfileRepository) UpsertMany(ctx context.Context, profiles []domain.SkillProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	for _, p := range profiles {
		err := qtx.UpsertSkillProfile(ctx, db.UpsertSkillProfileParams{
			MemberTag:         p.MemberID,
			OffenseSkill:      int64(p.OffenseSkill),
			CleanupSkill:      int64(p.CleanupSkill),
			Consistency:       int64(p.Consistency),
			Clutch:            int64(p.Clutch),
			Participation:     int64(p.Participation),
			CapitalEfficiency: int64(p.CapitalEfficiency),
			UpdatedAt:         p.UpdatedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert skill profile %s: %w", p.MemberID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().Int("count", len(profiles)).Msg("skill profiles upserted")
	return nil
}

// GetMany looks up profiles by member tag. Unknown tags are absent from the result.
func (r *SkillProfileRepository) GetMany(ctx context.Context, memberTags []string) (map[string]domain.SkillProfile, error) {
	result := make(map[string]domain.SkillProfile, len(memberTags))
	if len(memberTags) == 0 {
		return result, nil
	}

	// keep the IN list below sqlite's bound parameter limit
	for i := 0; i < len(memberTags); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(memberTags))
		rows, err := r.queries.GetSkillProfilesByMembers(ctx, memberTags[i:end])
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result[row.MemberTag] = domain.SkillProfile{
				MemberID:          row.MemberTag,
				OffenseSkill:      int(row.OffenseSkill),
				CleanupSkill:      int(row.CleanupSkill),
				Consistency:       int(row.Consistency),
				Clutch:            int(row.Clutch),
				Participation:     int(row.Participation),
				CapitalEfficiency: int(row.CapitalEfficiency),
				UpdatedAt:         row.UpdatedAt,
			}
		}
	}
	return result, nil
}
