package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/http/handlers"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/geocoder89/electionhub/internal/security"
	"github.com/geocoder89/electionhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type errorResponse struct {
	Error handlers.APIError `json:"error"`
}

// small helper which returns a gin engine mounting one handler, with an
// optional identity already on the context
func setupRouter(method, path string, claims *auth.Claims, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestID())

	r.Handle(method, path, func(c *gin.Context) {
		if claims != nil {
			c.Set(middlewares.CtxClaims, claims)
		}
		c.Next()
	}, h)

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.APIError {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error: %v body=%s", err, w.Body.String())
	}
	if resp.Error.RequestID == "" {
		t.Fatalf("error envelope missing requestId: %s", w.Body.String())
	}
	return resp.Error
}

// Fake services

type fakeAuthService struct {
	registerFn func(ctx context.Context, email, password, role string) (user.User, error)
	loginFn    func(ctx context.Context, email, password string) (service.LoginResult, error)
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, role string) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password, role)
	}
	return user.User{}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return service.LoginResult{}, nil
}

type fakeElectionService struct {
	createFn         func(caller *auth.Claims, req election.CreateElectionRequest) (string, error)
	listAllFn        func(caller *auth.Claims) ([]election.View, error)
	listActiveFn     func(caller *auth.Claims) ([]election.View, error)
	addCandidateFn   func(caller *auth.Claims, electionID string, req candidate.CreateCandidateRequest) (string, error)
	listCandidatesFn func(caller *auth.Claims, electionID string) ([]candidate.View, error)
}

func (f *fakeElectionService) CreateElection(_ context.Context, caller *auth.Claims, req election.CreateElectionRequest) (string, error) {
	if f.createFn != nil {
		return f.createFn(caller, req)
	}
	return "", nil
}

func (f *fakeElectionService) ListAllElections(_ context.Context, caller *auth.Claims) ([]election.View, error) {
	if f.listAllFn != nil {
		return f.listAllFn(caller)
	}
	return []election.View{}, nil
}

func (f *fakeElectionService) ListActiveElections(_ context.Context, caller *auth.Claims) ([]election.View, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(caller)
	}
	return []election.View{}, nil
}

func (f *fakeElectionService) AddCandidate(_ context.Context, caller *auth.Claims, electionID string, req candidate.CreateCandidateRequest) (string, error) {
	if f.addCandidateFn != nil {
		return f.addCandidateFn(caller, electionID, req)
	}
	return "", nil
}

func (f *fakeElectionService) ListCandidates(_ context.Context, caller *auth.Claims, electionID string) ([]candidate.View, error) {
	if f.listCandidatesFn != nil {
		return f.listCandidatesFn(caller, electionID)
	}
	return []candidate.View{}, nil
}

type fakeDirectoryService struct {
	listFn func(caller *auth.Claims) ([]politician.View, error)
	addFn  func(caller *auth.Claims, req politician.CreatePoliticianRequest) (string, error)
}

func (f *fakeDirectoryService) ListDirectory(_ context.Context, caller *auth.Claims) ([]politician.View, error) {
	if f.listFn != nil {
		return f.listFn(caller)
	}
	return []politician.View{}, nil
}

func (f *fakeDirectoryService) AddToDirectory(_ context.Context, caller *auth.Claims, req politician.CreatePoliticianRequest) (string, error) {
	if f.addFn != nil {
		return f.addFn(caller, req)
	}
	return "", nil
}

var (
	adminClaims = &auth.Claims{UserID: "admin-1", Email: "admin@x.com", Role: user.RoleAdmin}
	voterClaims = &auth.Claims{UserID: "voter-1", Email: "v@x.com", Role: user.RoleVoter}
)

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"email":"v@x.com","password":"pw123","role":"voter"}`, nil, http.StatusCreated, ""},
		{"missing role", `{"email":"v@x.com","password":"pw123"}`, nil, http.StatusBadRequest, "invalid_request"},
		{"bad email", `{"email":"nope","password":"pw123","role":"voter"}`, nil, http.StatusBadRequest, "invalid_request"},
		{"unknown role", `{"email":"v@x.com","password":"pw123","role":"superuser"}`, user.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
		{"email taken", `{"email":"v@x.com","password":"pw123","role":"voter"}`, user.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{"store down", `{"email":"v@x.com","password":"pw123","role":"voter"}`, errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				registerFn: func(_ context.Context, email, _, role string) (user.User, error) {
					if tt.err != nil {
						return user.User{}, tt.err
					}
					return user.User{ID: uuid.NewString(), Email: email, Role: user.Role(role)}, nil
				},
			}

			h := handlers.NewAuthHandler(svc)
			r := setupRouter(http.MethodPost, "/auth/register", nil, h.Register)

			w := doJSON(r, http.MethodPost, "/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Fatalf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(_ context.Context, email, password string) (service.LoginResult, error) {
				return service.LoginResult{Token: "tok", Role: user.RoleVoter}, nil
			},
		}

		r := setupRouter(http.MethodPost, "/auth/login", nil, handlers.NewAuthHandler(svc).Login)
		w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"v@x.com","password":"pw123"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if body["access_token"] != "tok" || body["token_type"] != "bearer" || body["role"] != "voter" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"corrupt stored hash", fmt.Errorf("verify: %w", security.ErrCredentialFormat), http.StatusInternalServerError, "internal_error"},
		{"unreadable stored role", errors.New(`user u1 has unreadable role "superuser"`), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				loginFn: func(context.Context, string, string) (service.LoginResult, error) {
					return service.LoginResult{}, tt.err
				},
			}

			r := setupRouter(http.MethodPost, "/auth/login", nil, handlers.NewAuthHandler(svc).Login)
			w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"v@x.com","password":"bad"}`)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeError(t, w).Code; got != tt.wantCode {
				t.Fatalf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestMeHandler(t *testing.T) {
	h := handlers.NewAuthHandler(&fakeAuthService{})

	w := doJSON(setupRouter(http.MethodGet, "/auth/me", voterClaims, h.Me), http.MethodGet, "/auth/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] != "voter-1" || body["role"] != "voter" {
		t.Fatalf("unexpected body %v", body)
	}

	w = doJSON(setupRouter(http.MethodGet, "/auth/me", nil, h.Me), http.MethodGet, "/auth/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
}

func TestCreateElectionHandler(t *testing.T) {
	valid := `{"title":"General","description":"d","start_time":100,"end_time":200,"blockchain_id":7}`

	tests := []struct {
		name       string
		claims     *auth.Claims
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", adminClaims, valid, nil, http.StatusCreated, ""},
		{"voter forbidden", voterClaims, valid, auth.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"anonymous", nil, valid, auth.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{"bad window", adminClaims, `{"title":"General","start_time":200,"end_time":200,"blockchain_id":7}`, election.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
		{"missing fields", adminClaims, `{"title":"General"}`, nil, http.StatusBadRequest, "invalid_request"},
		{"service missing fields", adminClaims, valid, fmt.Errorf("%w: start_time", election.ErrMissingFields), http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCaller *auth.Claims

			svc := &fakeElectionService{
				createFn: func(caller *auth.Claims, req election.CreateElectionRequest) (string, error) {
					gotCaller = caller
					if tt.err != nil {
						return "", tt.err
					}
					return "e-1", nil
				},
			}

			r := setupRouter(http.MethodPost, "/elections", tt.claims, handlers.NewElectionsHandler(svc).CreateElection)
			w := doJSON(r, http.MethodPost, "/elections", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Fatalf("code = %q, want %q", got, tt.wantCode)
				}
				return
			}

			if gotCaller != tt.claims {
				t.Fatalf("handler did not pass the caller identity through")
			}

			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["id"] != "e-1" {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestListElectionsHandlers(t *testing.T) {
	views := []election.View{{ID: "e-1", Title: "General", StartTime: 100, EndTime: 200, Status: election.StatusActive}}

	svc := &fakeElectionService{
		listAllFn: func(caller *auth.Claims) ([]election.View, error) {
			if caller == nil || !caller.Role.IsAdmin() {
				return nil, auth.ErrForbidden
			}
			return views, nil
		},
		listActiveFn: func(caller *auth.Claims) ([]election.View, error) {
			return views, nil
		},
	}
	h := handlers.NewElectionsHandler(svc)

	w := doJSON(setupRouter(http.MethodGet, "/admin/elections", adminClaims, h.ListAll), http.MethodGet, "/admin/elections", "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", w.Code)
	}

	var got []election.View
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Status != election.StatusActive {
		t.Fatalf("unexpected list %+v", got)
	}

	w = doJSON(setupRouter(http.MethodGet, "/admin/elections", voterClaims, h.ListAll), http.MethodGet, "/admin/elections", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("voter admin list status = %d", w.Code)
	}

	w = doJSON(setupRouter(http.MethodGet, "/elections-details", voterClaims, h.ListActive), http.MethodGet, "/elections-details", "")
	if w.Code != http.StatusOK {
		t.Fatalf("active list status = %d", w.Code)
	}
}

func TestCandidateHandlers(t *testing.T) {
	electionID := uuid.NewString()

	svc := &fakeElectionService{
		addCandidateFn: func(_ *auth.Claims, id string, req candidate.CreateCandidateRequest) (string, error) {
			if id != electionID {
				return "", election.ErrNotFound
			}
			return "c-1", nil
		},
		listCandidatesFn: func(_ *auth.Claims, id string) ([]candidate.View, error) {
			if id != electionID {
				return nil, election.ErrNotFound
			}
			return []candidate.View{{ID: "c-1", CandidateID: 1, Name: "A", Party: "Party X"}}, nil
		},
	}
	h := handlers.NewElectionsHandler(svc)
	body := `{"name":"A","party":"Party X","candidate_id":1}`

	tests := []struct {
		name       string
		method     string
		id         string
		handler    gin.HandlerFunc
		body       string
		wantStatus int
		wantCode   string
	}{
		{"add", http.MethodPost, electionID, h.AddCandidate, body, http.StatusCreated, ""},
		{"add invalid id", http.MethodPost, "not-a-uuid", h.AddCandidate, body, http.StatusBadRequest, "invalid_id"},
		{"add unknown election", http.MethodPost, uuid.NewString(), h.AddCandidate, body, http.StatusNotFound, "not_found"},
		{"add missing candidate_id", http.MethodPost, electionID, h.AddCandidate, `{"name":"A","party":"Party X"}`, http.StatusBadRequest, "invalid_request"},
		{"list", http.MethodGet, electionID, h.ListCandidates, "", http.StatusOK, ""},
		{"list invalid id", http.MethodGet, "123", h.ListCandidates, "", http.StatusBadRequest, "invalid_id"},
		{"list unknown election", http.MethodGet, uuid.NewString(), h.ListCandidates, "", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(tt.method, "/elections/:id/candidates", adminClaims, tt.handler)
			w := doJSON(r, tt.method, "/elections/"+tt.id+"/candidates", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Fatalf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestPoliticiansHandlers(t *testing.T) {
	seen := map[string]bool{}

	svc := &fakeDirectoryService{
		addFn: func(_ *auth.Claims, req politician.CreatePoliticianRequest) (string, error) {
			key := req.Name + "|" + req.Party
			if seen[key] {
				return "", politician.ErrAlreadyExists
			}
			seen[key] = true
			return "p-1", nil
		},
		listFn: func(*auth.Claims) ([]politician.View, error) {
			return []politician.View{{ID: "p-1", Name: "A", Party: "Party X"}}, nil
		},
	}
	h := handlers.NewPoliticiansHandler(svc)
	r := setupRouter(http.MethodPost, "/admin/politicians", adminClaims, h.Create)

	w := doJSON(r, http.MethodPost, "/admin/politicians", `{"name":"A","party":"Party X"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first add status = %d", w.Code)
	}

	var created map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created["id"] != "p-1" || created["message"] == "" {
		t.Fatalf("unexpected body %v", created)
	}

	w = doJSON(r, http.MethodPost, "/admin/politicians", `{"name":"A","party":"Party X"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate add status = %d", w.Code)
	}
	if got := decodeError(t, w).Code; got != "politician_exists" {
		t.Fatalf("code = %q", got)
	}

	w = doJSON(setupRouter(http.MethodGet, "/admin/politicians", adminClaims, h.List), http.MethodGet, "/admin/politicians", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := handlers.NewHealthHandler(map[string]handlers.PingFunc{"store": func() error { return nil }})

	w := doJSON(setupRouter(http.MethodGet, "/readyz", nil, ok.Readyz), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d", w.Code)
	}

	down := handlers.NewHealthHandler(map[string]handlers.PingFunc{"store": func() error { return errors.New("down") }})

	w = doJSON(setupRouter(http.MethodGet, "/readyz", nil, down.Readyz), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("not ready status = %d", w.Code)
	}

	w = doJSON(setupRouter(http.MethodGet, "/", nil, ok.Root), http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("root status = %d", w.Code)
	}
}
