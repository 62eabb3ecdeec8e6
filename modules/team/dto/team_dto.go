package dto

import (
	"time"

	coreentity "meetsync/core/entity"
	"meetsync/modules/team/entity"
)

// ===================== Request DTOs =====================

// CreateTeamRequest for creating a new team
type CreateTeamRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// AddMemberRequest for adding a member to a team
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// SettingRequest for device-scoped settings
type SettingRequest struct {
	Value string `json:"value"`
}

// ===================== Response DTOs =====================

// TeamResponse for team details
type TeamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	FromCache bool      `json:"from_cache,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingResponse for device-scoped settings
type SettingResponse struct {
	Value string `json:"value"`
}

type PaginatedTeamResponse = coreentity.Pagination[TeamResponse]

func ToTeamResponse(team *entity.Team, fromCache bool) *TeamResponse {
	return &TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		Members:   team.Members,
		FromCache: fromCache,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}
