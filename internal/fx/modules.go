package fx

import (
	"database/sql"

	"go.uber.org/fx"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/database"
	"github.com/IkonicR/ClanOS-sub001/internal/db"
	"github.com/IkonicR/ClanOS-sub001/internal/logger"
	"github.com/IkonicR/ClanOS-sub001/internal/metrics"
	"github.com/IkonicR/ClanOS-sub001/internal/repository"
	"github.com/IkonicR/ClanOS-sub001/internal/server"
	"github.com/IkonicR/ClanOS-sub001/internal/service"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideRosterSource(client *api.CoCClient) service.RosterSource {
	return client
}

func ProvideWarRoomServer(
	profiles *service.ProfileService,
	attendance *service.AttendanceService,
	lineups *service.LineupService,
	assignments *service.AssignmentService,
	ingest *service.IngestService,
) *server.WarRoomServer {
	return server.NewWarRoomServer(profiles, attendance, lineups, assignments, ingest)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	metrics.Module,
	// stores
	fx.Provide(fx.Annotate(repository.NewWarRepository, fx.As(new(service.HistoryStore)))),
	fx.Provide(fx.Annotate(repository.NewSnapshotRepository, fx.As(new(service.SnapshotStore)))),
	fx.Provide(fx.Annotate(repository.NewSkillProfileRepository, fx.As(new(service.ProfileStore)))),
	fx.Provide(fx.Annotate(repository.NewClanRepository, fx.As(new(service.ClanStore)))),
	// api client
	api.Module,
	fx.Provide(ProvideRosterSource),
	// svc
	fx.Provide(service.NewProfileService),
	fx.Provide(service.NewAttendanceService),
	fx.Provide(service.NewLineupService),
	fx.Provide(service.NewAssignmentService),
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewRecomputeJob),
	// server
	fx.Provide(ProvideWarRoomServer),
)
