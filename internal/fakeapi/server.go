package fakeapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/memorymap/internal/logging"
)

const (
	TokenTTL = 7 * 24 * time.Hour

	maxAvatarBytes int64 = 5 << 20
)

var (
	ErrEmailTaken   = errors.New("User with this email already exists")
	ErrUserNotFound = errors.New("User not found")
)

type user struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   []byte
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type entry struct {
	ID       string `json:"entryId"`
	UserID   string `json:"userId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location any    `json:"location"`
	PhotoURL any    `json:"photoUrl"`
}

type avatar struct {
	ContentType string
	Data        []byte
}

type fault struct {
	Status  int
	Message string
}

type Server struct {
	secret         []byte
	bcryptCost     int
	allowedOrigins []string
	log            logging.Logger
	now            func() time.Time

	mu      sync.Mutex
	users   map[string]*user
	byEmail map[string]string
	entries []entry
	avatars map[string]avatar
	faults  map[string]fault
}

type Option func(*Server)

func WithSecret(secret []byte) Option { return func(s *Server) { s.secret = secret } }

func WithLogger(l logging.Logger) Option { return func(s *Server) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithBcryptCost lowers hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option { return func(s *Server) { s.bcryptCost = cost } }

// WithAllowedOrigins sets the CORS origins. Default is any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:         []byte("dev-secret"),
		bcryptCost:     bcrypt.DefaultCost,
		allowedOrigins: []string{"*"},
		log:            logging.Nop(),
		now:            time.Now,
		users:          make(map[string]*user),
		byEmail:        make(map[string]string),
		avatars:        make(map[string]avatar),
		faults:         make(map[string]fault),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fail makes route answer status with message until Heal is called. route
// is "METHOD pattern" as registered, e.g. "GET /users/me".
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = fault{Status: status, Message: message}
}

func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]fault)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})
	r.Use(c.Handler)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", s.route("POST /auth/register", s.handleRegister))
	r.Post("/auth/login", s.route("POST /auth/login", s.handleLogin))

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/verify", s.route("GET /auth/verify", s.handleVerify))
		r.Get("/users/me", s.route("GET /users/me", s.handleMe))
		r.Put("/users/{id}", s.route("PUT /users/{id}", s.handleUpdateUser))
		r.Post("/users/{id}/profile-picture", s.route("POST /users/{id}/profile-picture", s.handleUploadAvatar))
	})

	r.Get("/users/{id}", s.route("GET /users/{id}", s.handleGetUser))
	r.Get("/avatars/{name}", s.route("GET /avatars/{name}", s.handleAvatar))

	r.Post("/entries", s.route("POST /entries", s.handleCreateEntry))
	r.Get("/entries/user/{id}", s.route("GET /entries/user/{id}", s.handleListEntries))

	return r
}

// route wraps h with the fault injected for name, if any.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.faults[name]
		s.mu.Unlock()
		if ok {
			writeError(w, f.Status, f.Message)
			return
		}
		h(w, r)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		args := []any{
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.RequestURI,
			"status", status,
			"latency", time.Since(started),
		}
		switch {
		case status >= 500:
			s.log.Error(r.Context(), "request completed", args...)
		case status >= 400:
			s.log.Warn(r.Context(), "request completed", args...)
		default:
			s.log.Info(r.Context(), "request completed", args...)
		}
	})
}
