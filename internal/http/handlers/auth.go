package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/electionhub/internal/config"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/geocoder89/electionhub/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (user.User, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.svc.Register(cctx, req.Email, req.Password, req.Role); err != nil {
		respondServiceError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	res, err := h.svc.Login(cctx, req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": res.Token,
		"token_type":   "bearer",
		"role":         res.Role,
	})
}

// Me echoes the identity carried by the verified token.
func (h *AuthHandler) Me(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required.")
		return
	}

	body := gin.H{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
	}

	if claims.ExpiresAt != nil {
		body["expires_at"] = claims.ExpiresAt.Unix()
	}

	ctx.JSON(http.StatusOK, body)
}
