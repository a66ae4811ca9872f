package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/config"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type DirectoryService interface {
	ListDirectory(ctx context.Context, caller *auth.Claims) ([]politician.View, error)
	AddToDirectory(ctx context.Context, caller *auth.Claims, req politician.CreatePoliticianRequest) (string, error)
}

type PoliticiansHandler struct {
	svc DirectoryService
}

func NewPoliticiansHandler(svc DirectoryService) *PoliticiansHandler {
	return &PoliticiansHandler{svc: svc}
}

func (h *PoliticiansHandler) List(ctx *gin.Context) {
	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.svc.ListDirectory(cctx, claims)
	if err != nil {
		respondServiceError(ctx, err, "Could not list politicians")
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *PoliticiansHandler) Create(ctx *gin.Context) {
	var req politician.CreatePoliticianRequest

	if !BindJSON(ctx, &req) {
		return
	}

	claims, _ := middlewares.ClaimsFromContext(ctx)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	id, err := h.svc.AddToDirectory(cctx, claims, req)
	if err != nil {
		respondServiceError(ctx, err, "Could not add politician")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Politician added to bank",
	})
}
