package election

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateElectionRequest, createdBy string, now time.Time) Election {
	return Election{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    *req.StartTime,
		EndTime:      *req.EndTime,
		BlockchainID: *req.BlockchainID,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
}
