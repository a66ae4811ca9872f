package http

import (
	"net/http"
	"time"

	"github.com/geocoder89/electionhub/internal/http/handlers"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/geocoder89/electionhub/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// Deps is everything the router needs; main wires the concrete stores and
// services, tests wire in-memory ones.
type Deps struct {
	Env         string
	ServiceName string
	CORSOrigins []string

	Gate      middlewares.Authenticator
	Auth      handlers.AuthService
	Elections handlers.ElectionService
	Directory handlers.DirectoryService

	LoginCounter    ratelimit.Counter
	LoginRateLimit  int
	LoginRateWindow time.Duration

	Prom    *observability.Prom
	Metrics http.Handler
	Pings   map[string]handlers.PingFunc
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	if d.ServiceName != "" {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// health
	h := handlers.NewHealthHandler(d.Pings)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	authMw := middlewares.NewAuthMiddleware(d.Gate)
	loginLimiter := middlewares.NewRateLimiter(d.LoginCounter, d.LoginRateLimit, d.LoginRateWindow, "login")

	authHandler := handlers.NewAuthHandler(d.Auth)
	electionsHandler := handlers.NewElectionsHandler(d.Elections)
	politiciansHandler := handlers.NewPoliticiansHandler(d.Directory)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middlewares.RequireJSON(), authHandler.Register)
		authGroup.POST("/login", loginLimiter.Middleware(middlewares.KeyByIP), middlewares.RequireJSON(), authHandler.Login)
		authGroup.GET("/me", authMw.RequireAuth(), authHandler.Me)
	}

	admin := r.Group("/admin", authMw.RequireAuth(), authMw.RequireAdmin())
	{
		admin.GET("/politicians", politiciansHandler.List)
		admin.POST("/politicians", middlewares.RequireJSON(), politiciansHandler.Create)
		admin.GET("/elections", electionsHandler.ListAll)
	}

	r.GET("/elections-details", authMw.RequireAuth(), electionsHandler.ListActive)

	elections := r.Group("/elections", authMw.RequireAuth())
	{
		elections.POST("", authMw.RequireAdmin(), middlewares.RequireJSON(), electionsHandler.CreateElection)
		elections.POST("/:id/candidates", authMw.RequireAdmin(), middlewares.RequireJSON(), electionsHandler.AddCandidate)
		elections.GET("/:id/candidates", electionsHandler.ListCandidates)
	}

	return r
}
