package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/service"
)

const (
	WarRoomServiceName = "warroom.v1.WarRoom"
	WarRoomPath        = "/" + WarRoomServiceName + "/"

	GetSkillProfilesProcedure  = WarRoomPath + "GetSkillProfiles"
	RecomputeProfilesProcedure = WarRoomPath + "RecomputeProfiles"
	GetAttendanceProcedure     = WarRoomPath + "GetAttendance"
	GetLineupProcedure         = WarRoomPath + "GetLineup"
	GetAssignmentsProcedure    = WarRoomPath + "GetAssignments"
	SyncClanProcedure          = WarRoomPath + "SyncClan"
)

type Profiles interface {
	Recompute(ctx context.Context, clanTag string) ([]domain.SkillProfile, error)
	GetProfiles(ctx context.Context, memberTags []string) (map[string]domain.SkillProfile, error)
	ClanProfiles(ctx context.Context, clanTag string) ([]domain.SkillProfile, error)
	ResolveClan(ctx context.Context, clanTag, playerTag string) (string, error)
}

type Attendance interface {
	Analyze(ctx context.Context, clanTag string, windowDays int) (domain.AttendanceReport, error)
}

type Lineups interface {
	Build(ctx context.Context, clanTag string, teamSize int) (domain.Lineup, error)
}

type Assignments interface {
	Plan(ctx context.Context, clanTag string) (domain.LiveWar, domain.AssignmentPlan, error)
}

type Ingest interface {
	SyncClan(ctx context.Context, clanTag string) (domain.SyncResult, error)
}

type WarRoomServer struct {
	profiles    Profiles
	attendance  Attendance
	lineups     Lineups
	assignments Assignments
	ingest      Ingest
}

func NewWarRoomServer(profiles Profiles, attendance Attendance, lineups Lineups, assignments Assignments, ingest Ingest) *WarRoomServer {
	return &WarRoomServer{
		profiles:    profiles,
		attendance:  attendance,
		lineups:     lineups,
		assignments: assignments,
		ingest:      ingest,
	}
}

// Handler mounts every procedure under WarRoomPath, mirroring a generated connect handler.
func (s *WarRoomServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetSkillProfilesProcedure, connect.NewUnaryHandler(GetSkillProfilesProcedure, s.GetSkillProfiles, opts...))
	mux.Handle(RecomputeProfilesProcedure, connect.NewUnaryHandler(RecomputeProfilesProcedure, s.RecomputeProfiles, opts...))
	mux.Handle(GetAttendanceProcedure, connect.NewUnaryHandler(GetAttendanceProcedure, s.GetAttendance, opts...))
	mux.Handle(GetLineupProcedure, connect.NewUnaryHandler(GetLineupProcedure, s.GetLineup, opts...))
	mux.Handle(GetAssignmentsProcedure, connect.NewUnaryHandler(GetAssignmentsProcedure, s.GetAssignments, opts...))
	mux.Handle(SyncClanProcedure, connect.NewUnaryHandler(SyncClanProcedure, s.SyncClan, opts...))
	return WarRoomPath, mux
}

func (s *WarRoomServer) GetSkillProfiles(ctx context.Context, req *connect.Request[GetSkillProfilesRequest]) (*connect.Response[GetSkillProfilesResponse], error) {
	defer timed(ctx, "GetSkillProfiles")()

	if len(req.Msg.MemberTags) > 0 {
		byMember, err := s.profiles.GetProfiles(ctx, req.Msg.MemberTags)
		if err != nil {
			return nil, toConnectError(err)
		}
		resp := &GetSkillProfilesResponse{Profiles: []SkillProfile{}}
		for _, tag := range req.Msg.MemberTags {
			if p, ok := byMember[tag]; ok {
				resp.Profiles = append(resp.Profiles, toSkillProfile(p))
			}
		}
		return connect.NewResponse(resp), nil
	}

	clanTag, err := s.profiles.ResolveClan(ctx, req.Msg.ClanTag, req.Msg.PlayerTag)
	if err != nil {
		return nil, toConnectError(err)
	}
	profiles, err := s.profiles.ClanProfiles(ctx, clanTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetSkillProfilesResponse{
		ClanTag:  clanTag,
		Profiles: toSkillProfiles(profiles),
	}), nil
}

func (s *WarRoomServer) RecomputeProfiles(ctx context.Context, req *connect.Request[RecomputeProfilesRequest]) (*connect.Response[RecomputeProfilesResponse], error) {
	defer timed(ctx, "RecomputeProfiles")()

	clanTag, err := s.profiles.ResolveClan(ctx, req.Msg.ClanTag, req.Msg.PlayerTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &RecomputeProfilesResponse{ClanTag: clanTag}
	if req.Msg.Sync {
		result, err := s.ingest.SyncClan(ctx, clanTag)
		if err != nil {
			return nil, toConnectError(err)
		}
		synced := toSyncResult(result)
		resp.Sync = &synced
	}

	profiles, err := s.profiles.Recompute(ctx, clanTag)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp.Profiles = toSkillProfiles(profiles)
	return connect.NewResponse(resp), nil
}

func (s *WarRoomServer) GetAttendance(ctx context.Context, req *connect.Request[GetAttendanceRequest]) (*connect.Response[GetAttendanceResponse], error) {
	defer timed(ctx, "GetAttendance")()

	clanTag, err := s.profiles.ResolveClan(ctx, req.Msg.ClanTag, req.Msg.PlayerTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	report, err := s.attendance.Analyze(ctx, clanTag, req.Msg.WindowDays)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetAttendanceResponse{
		ClanTag: clanTag,
		Members: toAttendance(report.Members),
		Summary: AttendanceOverview(report.Summary),
	}), nil
}

func (s *WarRoomServer) GetLineup(ctx context.Context, req *connect.Request[GetLineupRequest]) (*connect.Response[GetLineupResponse], error) {
	defer timed(ctx, "GetLineup")()

	clanTag, err := s.profiles.ResolveClan(ctx, req.Msg.ClanTag, req.Msg.PlayerTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	lineup, err := s.lineups.Build(ctx, clanTag, req.Msg.TeamSize)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetLineupResponse{
		ClanTag:            clanTag,
		TeamSize:           lineup.TeamSize,
		Lineup:             toLineupEntries(lineup.Lineup),
		Bench:              toLineupEntries(lineup.Bench),
		Openers:            toLineupEntries(lineup.Openers),
		CleanupSpecialists: toLineupEntries(lineup.CleanupSpecialists),
	}), nil
}

func (s *WarRoomServer) GetAssignments(ctx context.Context, req *connect.Request[GetAssignmentsRequest]) (*connect.Response[GetAssignmentsResponse], error) {
	defer timed(ctx, "GetAssignments")()

	clanTag, err := s.profiles.ResolveClan(ctx, req.Msg.ClanTag, req.Msg.PlayerTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	war, plan, err := s.assignments.Plan(ctx, clanTag)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &GetAssignmentsResponse{
		ClanTag:      clanTag,
		OpponentTag:  war.OpponentTag,
		OpponentName: war.OpponentName,
		State:        war.State,
		TeamSize:     plan.TeamSize,
		Assignments:  make([]Assignment, len(plan.Assignments)),
		Alternates:   make([]Member, len(plan.Alternates)),
	}
	for i, a := range plan.Assignments {
		resp.Assignments[i] = Assignment{
			Attacker:       toMember(a.Attacker),
			Defender:       toMember(a.Defender),
			PredictedStars: a.PredictedStars,
			Rationale:      Rationale(a.Rationale),
		}
	}
	for i, d := range plan.Alternates {
		resp.Alternates[i] = toMember(d)
	}
	return connect.NewResponse(resp), nil
}

func (s *WarRoomServer) SyncClan(ctx context.Context, req *connect.Request[SyncClanRequest]) (*connect.Response[SyncClanResponse], error) {
	defer timed(ctx, "SyncClan")()

	if req.Msg.ClanTag == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("clanTag is required"))
	}

	result, err := s.ingest.SyncClan(ctx, req.Msg.ClanTag)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SyncClanResponse{Result: toSyncResult(result)}), nil
}

func timed(ctx context.Context, procedure string) func() {
	start := time.Now()
	return func() {
		zerolog.Ctx(ctx).Debug().
			Str("procedure", procedure).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("procedure finished")
	}
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotInGroup), errors.Is(err, service.ErrNoActiveWar):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, service.ErrClanNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
