package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meetsync/core/constants"
	"meetsync/core/errors"

	"github.com/gosimple/slug"
)

// Team is the scope an availability collection belongs to. Its id is a slug
// of the name, which makes duplicate names a uniqueness conflict.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateName enforces the team name rules
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.NewValidationError("team name is required")
	}
	if utf8.RuneCountInString(trimmed) > constants.TeamNameMaxLength {
		return errors.NewValidationError(
			fmt.Sprintf("team name must be at most %d characters", constants.TeamNameMaxLength))
	}
	return nil
}

// NewTeam creates a team with a slug id derived from its name
func NewTeam(name string, members []string) (*Team, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if members == nil {
		members = []string{}
	}

	now := time.Now().UTC()
	return &Team{
		ID:        slug.Make(strings.TrimSpace(name)),
		Name:      strings.TrimSpace(name),
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddMember appends a member if not already present
func (t *Team) AddMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return false
		}
	}
	t.Members = append(t.Members, userID)
	t.UpdatedAt = time.Now().UTC()
	return true
}

func (t *Team) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

func FromJSON(data []byte) (*Team, error) {
	var t Team
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "malformed team", err)
	}
	if t.ID == "" {
		return nil, errors.NewValidationError("team id is required")
	}
	if t.Members == nil {
		t.Members = []string{}
	}
	return &t, nil
}
