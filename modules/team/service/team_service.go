package service

import (
	"context"
	"strings"

	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/core/sync"
	"meetsync/modules/team/dto"
	"meetsync/modules/team/entity"
)

// TeamService handles scope business logic. All team documents flow through
// the sync coordinator; device-scoped settings go straight to the local store.
type TeamService struct {
	sync  *sync.Coordinator
	local sync.LocalStore
}

// TeamServiceInterface defines the service contract
type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, req *dto.CreateTeamRequest) (*dto.TeamResponse, *errors.AppError)
	GetTeam(ctx context.Context, id string) (*dto.TeamResponse, *errors.AppError)
	ListTeams(ctx context.Context, params params.QueryParams) (*dto.PaginatedTeamResponse, *errors.AppError)
	AddMember(ctx context.Context, teamID string, req *dto.AddMemberRequest) (*dto.TeamResponse, *errors.AppError)
	CountParticipants(ctx context.Context, scopeID string) (int, error)

	SetSetting(ctx context.Context, key, value string) *errors.AppError
	GetSetting(ctx context.Context, key string) (string, *errors.AppError)
}

// NewTeamService creates a new team service
func NewTeamService(coordinator *sync.Coordinator, local sync.LocalStore) TeamServiceInterface {
	return &TeamService{
		sync:  coordinator,
		local: local,
	}
}

// CreateTeam creates a new team. Duplicate names collide on the slug id and
// are rejected as a conflict, not retried.
func (s *TeamService) CreateTeam(ctx context.Context, req *dto.CreateTeamRequest) (*dto.TeamResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	team, err := entity.NewTeam(req.Name, req.Members)
	if err != nil {
		return nil, asAppError(err)
	}

	if existing, _, _ := s.loadTeam(ctx, team.ID); existing != nil {
		return nil, errors.NewConflictError("a team with this name already exists")
	}

	if appErr := s.writeTeam(ctx, team); appErr != nil {
		return nil, appErr
	}

	logger.Info("TeamService:CreateTeam", "team_id", team.ID, "members", len(team.Members))
	return dto.ToTeamResponse(team, false), nil
}

// GetTeam retrieves a team by id, falling back to the cached copy offline
func (s *TeamService) GetTeam(ctx context.Context, id string) (*dto.TeamResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	team, fromCache, appErr := s.loadTeam(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToTeamResponse(team, fromCache), nil
}

// ListTeams returns a filtered page of teams
func (s *TeamService) ListTeams(ctx context.Context, p params.QueryParams) (*dto.PaginatedTeamResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	result, err := s.sync.List(ctx, sync.ListRequest{
		Collection: constants.CollectionTeams,
		LocalKey:   constants.StorageKeyTeams,
		IDField:    "id",
	})
	if err != nil {
		return nil, asAppError(err)
	}

	teams := make([]dto.TeamResponse, 0, len(result.Documents))
	search := strings.ToLower(p.Search)
	for _, doc := range result.Documents {
		team, err := entity.FromJSON(doc.Data)
		if err != nil {
			logger.Warn("TeamService:ListTeams:BadTeam", "doc_id", doc.ID, "error", err.Error())
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(team.Name), search) {
			continue
		}
		teams = append(teams, *dto.ToTeamResponse(team, result.FromCache))
	}

	total := int64(len(teams))
	start := (p.PageNumber - 1) * p.PageSize
	if start > len(teams) {
		start = len(teams)
	}
	end := start + p.PageSize
	if end > len(teams) {
		end = len(teams)
	}

	return &dto.PaginatedTeamResponse{
		Items:      teams[start:end],
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

// AddMember adds a user to the team's member list
func (s *TeamService) AddMember(ctx context.Context, teamID string, req *dto.AddMemberRequest) (*dto.TeamResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.UserID == "" {
		return nil, errors.NewValidationError("user_id is required")
	}

	team, _, appErr := s.loadTeam(ctx, teamID)
	if appErr != nil {
		return nil, appErr
	}

	if team.AddMember(req.UserID) {
		if appErr := s.writeTeam(ctx, team); appErr != nil {
			return nil, appErr
		}
	}
	return dto.ToTeamResponse(team, false), nil
}

// CountParticipants reports the team's member count for aggregation
func (s *TeamService) CountParticipants(ctx context.Context, scopeID string) (int, error) {
	team, _, appErr := s.loadTeam(ctx, scopeID)
	if appErr != nil {
		return 0, appErr
	}
	return len(team.Members), nil
}

// SetSetting stores a device-scoped scalar (currentTeamId, currentUserId,
// language). These live only in the local namespace and are never synced.
func (s *TeamService) SetSetting(ctx context.Context, key, value string) *errors.AppError {
	if !isSettingKey(key) {
		return errors.NewValidationError("unknown setting key")
	}
	if err := s.local.Set(ctx, key, value); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to store setting", err)
	}
	return nil
}

func (s *TeamService) GetSetting(ctx context.Context, key string) (string, *errors.AppError) {
	if !isSettingKey(key) {
		return "", errors.NewValidationError("unknown setting key")
	}
	value, ok, err := s.local.Get(ctx, key)
	if err != nil {
		return "", errors.NewAppError(errors.ErrGetFailed, "failed to read setting", err)
	}
	if !ok {
		return "", errors.NewNotFoundError("setting not set")
	}
	return value, nil
}

func isSettingKey(key string) bool {
	switch key {
	case constants.StorageKeyCurrentTeamID,
		constants.StorageKeyCurrentUserID,
		constants.StorageKeyLanguage:
		return true
	}
	return false
}

func (s *TeamService) loadTeam(ctx context.Context, id string) (*entity.Team, bool, *errors.AppError) {
	result, err := s.sync.Read(ctx, sync.ReadRequest{
		Collection: constants.CollectionTeams,
		DocID:      id,
		LocalKey:   constants.StorageKeyTeams,
		IDField:    "id",
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, false, errors.NewNotFoundError("team not found")
		}
		return nil, false, asAppError(err)
	}

	team, err := entity.FromJSON(result.Data)
	if err != nil {
		return nil, false, asAppError(err)
	}
	return team, result.FromCache, nil
}

func (s *TeamService) writeTeam(ctx context.Context, team *entity.Team) *errors.AppError {
	data, err := team.ToJSON()
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to serialize team", err)
	}

	err = s.sync.Write(ctx, sync.WriteRequest{
		Collection: constants.CollectionTeams,
		DocID:      team.ID,
		LocalKey:   constants.StorageKeyTeams,
		IDField:    "id",
		Data:       data,
	})
	if err != nil {
		return asAppError(err)
	}
	return nil
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrInternalServer, err.Error(), err)
}
