package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/config"
	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ElectionService interface {
	CreateElection(ctx context.Context, caller *auth.Claims, req election.CreateElectionRequest) (string, error)
	ListAllElections(ctx context.Context, caller *auth.Claims) ([]election.View, error)
	ListActiveElections(ctx context.Context, caller *auth.Claims) ([]election.View, error)
	AddCandidate(ctx context.Context, caller *auth.Claims, electionID string, req candidate.CreateCandidateRequest) (string, error)
	ListCandidates(ctx context.Context, caller *auth.Claims, electionID string) ([]candidate.View, error)
}

type ElectionsHandler struct {
	svc ElectionService
}

func NewElectionsHandler(svc ElectionService) *ElectionsHandler {
	return &ElectionsHandler{svc: svc}
}

func (h *ElectionsHandler) CreateElection(ctx *gin.Context) {
	var req election.CreateElectionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	id, err := h.svc.CreateElection(cctx, claims, req)
	if err != nil {
		respondServiceError(ctx, err, "Could not create election")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListAll is the admin view: every election with its derived status.
func (h *ElectionsHandler) ListAll(ctx *gin.Context) {
	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.svc.ListAllElections(cctx, claims)
	if err != nil {
		respondServiceError(ctx, err, "Could not list elections")
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *ElectionsHandler) ListActive(ctx *gin.Context) {
	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.svc.ListActiveElections(cctx, claims)
	if err != nil {
		respondServiceError(ctx, err, "Could not list elections")
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *ElectionsHandler) AddCandidate(ctx *gin.Context) {
	electionID := ctx.Param("id")
	if !IsUUID(electionID) {
		RespondBadRequestCode(ctx, "invalid_id", "Election id must be a valid UUID.")
		return
	}

	var req candidate.CreateCandidateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	id, err := h.svc.AddCandidate(cctx, claims, electionID, req)
	if err != nil {
		respondServiceError(ctx, err, "Could not add candidate")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ElectionsHandler) ListCandidates(ctx *gin.Context) {
	electionID := ctx.Param("id")
	if !IsUUID(electionID) {
		RespondBadRequestCode(ctx, "invalid_id", "Election id must be a valid UUID.")
		return
	}

	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.svc.ListCandidates(cctx, claims, electionID)
	if err != nil {
		respondServiceError(ctx, err, "Could not list candidates")
		return
	}

	ctx.JSON(http.StatusOK, items)
}
