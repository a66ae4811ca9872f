package election

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("election not found")
	ErrInvalidWindow = errors.New("end time must be after start time")
	ErrMissingFields = errors.New("required election fields missing")
)

// Election timestamps are seconds since the Unix epoch; fractions are allowed.
// Status is never stored, see DeriveStatus.
type Election struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    float64   `json:"start_time"`
	EndTime      float64   `json:"end_time"`
	BlockchainID int64     `json:"blockchain_id"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// View is what listing endpoints return.
type View struct {
	ID           string  `json:"id"`
	BlockchainID int64   `json:"blockchain_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	Status       Status  `json:"status"`
}

func (e Election) ViewAt(now float64) View {
	return View{
		ID:           e.ID,
		BlockchainID: e.BlockchainID,
		Title:        e.Title,
		Description:  e.Description,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Status:       DeriveStatus(e.StartTime, e.EndTime, now),
	}
}

// pointers so that zero values are accepted but absence is not.
type CreateElectionRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	StartTime    *float64 `json:"start_time" binding:"required"`
	EndTime      *float64 `json:"end_time" binding:"required"`
	BlockchainID *int64   `json:"blockchain_id" binding:"required"`
}
