package dto

import "time"

// ForwardRequest reroutes a complaint to another team. The comment is
// mandatory for the receiving team.
type ForwardRequest struct {
	TeamID  string `json:"team_id" validate:"required"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// TeamResponse is one forward target.
type TeamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
