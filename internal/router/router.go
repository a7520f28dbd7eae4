package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-manager/docs"
	"pet-manager/internal/adapters/ratelimit"
	"pet-manager/internal/adapters/sessionstore"
	mem "pet-manager/internal/adapters/storage/memory"
	pg "pet-manager/internal/adapters/storage/postgres"
	"pet-manager/internal/adapters/thecatapi"
	"pet-manager/internal/config"
	"pet-manager/internal/domain/auth"
	"pet-manager/internal/domain/cats"
	"pet-manager/internal/domain/pets"
	"pet-manager/internal/domain/users"
	"pet-manager/internal/http/respond"
	"pet-manager/internal/middleware"
	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/password"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil => logger.Discard()

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene, limiter de login y sesiones van a Redis (compartidos entre instancias).
	Redis redis.UniversalClient

	// Hasher nil => bcrypt con Config.BcryptCost.
	Hasher password.Hasher

	// CatTransport reemplaza el transport del cliente de TheCatAPI (tests).
	CatTransport http.RoundTripper

	// Background, si viene, arranca las limpiezas periódicas de los limitadores y sesiones
	// en memoria hasta que se cancele.
	Background context.Context
}

func NewRouter(opts Options) (http.Handler, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	respond.SetLogger(log)

	hasher := opts.Hasher
	if hasher == nil {
		hasher = password.NewBcrypt(cfg.BcryptCost)
	}

	var (
		userRepo  users.Repository
		petRepo   pets.Repository
		tokenRepo auth.TokenRepository
	)
	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		tokenRepo = pg.NewTokensRepo(opts.DB)
	} else {
		store := mem.NewStore()
		userRepo = store.Users()
		petRepo = store.Pets()
		tokenRepo = store.Tokens()
	}

	var (
		limiter  auth.Limiter
		sessions auth.SessionStore
	)
	if opts.Redis != nil {
		limiter = ratelimit.NewRedis(opts.Redis)
		sessions = sessionstore.NewRedis(opts.Redis)
	} else {
		ml := ratelimit.NewMemory()
		ms := sessionstore.NewMemory()
		if opts.Background != nil {
			ml.StartJanitor(opts.Background, time.Minute)
			ms.StartJanitor(opts.Background, 5*time.Minute)
		}
		limiter, sessions = ml, ms
	}

	catClient, err := thecatapi.NewClient(thecatapi.Config{
		BaseURL:   cfg.CatAPI.BaseURL,
		APIKey:    cfg.CatAPI.APIKey,
		Timeout:   cfg.CatAPI.Timeout,
		Transport: opts.CatTransport,
	})
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, hasher)
	petsSvc := pets.NewService(petRepo)
	catsSvc := cats.NewService(catClient)
	tokenSvc := auth.NewTokenService(tokenRepo, userRepo)
	sessionMgr := auth.NewSessionManager(sessions, auth.SessionConfig{
		Secret:      []byte(cfg.Session.Secret),
		TTL:         cfg.Session.TTL,
		RememberTTL: cfg.Session.RememberTTL,
		Secure:      cfg.Session.SecureCookie,
	})
	usersSvc.SetSessionRevoker(sessionMgr)

	authn := auth.NewAuthenticator(userRepo, hasher, limiter, auth.AuthenticatorConfig{
		MaxAttempts: cfg.Login.MaxAttempts,
		Decay:       cfg.Login.Decay,
	}, log)

	ipLimiter := middleware.NewIPLimiter(cfg.CatAPI.RateRPS, cfg.CatAPI.RateBurst)
	if opts.Background != nil {
		ipLimiter.StartJanitor(opts.Background, time.Minute)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(tokenSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	deps := auth.Deps{
		Users:         usersSvc,
		Authenticator: authn,
		Tokens:        tokenSvc,
		Sessions:      sessionMgr,
		Log:           log,
	}

	// Rutas por módulo
	auth.RegisterRoutes(r, deps)
	auth.RegisterWebRoutes(r, deps)

	r.Group(func(cr chi.Router) {
		cr.Use(middleware.RateLimit(ipLimiter, log))
		cats.RegisterRoutes(cr, catsSvc, log)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)
		users.RegisterRoutes(pr, usersSvc, log)
		pets.RegisterRoutes(pr, petsSvc, log)
	})

	return r, nil
}
