package models

import "time"

type CreateUserRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Name              string `json:"name"`
	DesiredPosition   string `json:"desired_position"`
	SalaryExpectation string `json:"salary_expectation"`
	Location          string `json:"location"`
	WorkModality      string `json:"work_modality"`
}

type UpdatePreferencesRequest struct {
	DesiredPosition   *string `json:"desired_position"`
	SalaryExpectation *string `json:"salary_expectation"`
	Location          *string `json:"location"`
	WorkModality      *string `json:"work_modality"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	ChunkCount   int    `json:"chunk_count"`
}

type MatchRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Limit  int    `json:"limit"`
}

type MatchRunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type MatchRunResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Matches      []MatchedOffer  `json:"matches,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type MatchedOffer struct {
	OfferID       string     `json:"offer_id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	URL           string     `json:"url"`
	Score         float64    `json:"score"`
	IsRecommended bool       `json:"is_recommended"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
}

type CreateApplicationRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	JobOfferID string `json:"job_offer_id" validate:"required,uuid"`
	Notes      string `json:"notes"`
}

type MoveApplicationRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type BoardCard struct {
	ApplicationID string    `json:"application_id"`
	OfferID       string    `json:"offer_id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	URL           string    `json:"url"`
	Notes         string    `json:"notes,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BoardResponse struct {
	UserID  string                 `json:"user_id"`
	Columns map[string][]BoardCard `json:"columns"`
}
