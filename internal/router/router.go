package router

import (
	"net/http"
	"time"

	_ "pet-care-hub/docs"
	"pet-care-hub/internal/adapters/storage"
	"pet-care-hub/internal/domain/auth"
	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/clubs"
	"pet-care-hub/internal/domain/groups"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/middleware"
	"pet-care-hub/internal/platform/logger"
	authport "pet-care-hub/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services son los services de dominio ya cableados entre sí.
type Services struct {
	Users  *users.Service
	Auth   *auth.Service
	Edges  *memberships.Service
	Pets   *pets.Service
	Groups *groups.Service
	Clubs  *clubs.Service
	Books  *books.Service
}

// NewServices arma los services sobre un backend. Los setters cierran las
// referencias que no pueden ir por import (pets->groups, books->clubs).
func NewServices(st storage.Stores, tokens authport.TokenIssuer, loc *time.Location) *Services {
	edges := memberships.NewService(st.Edges)
	usersSvc := users.NewService(st.Users)
	petsSvc := pets.NewService(st.Pets, usersSvc, edges)
	petsSvc.SetLocation(loc)
	groupsSvc := groups.NewService(st.Groups, usersSvc, petsSvc, edges)
	petsSvc.SetGroupDirectory(groupsSvc)
	booksSvc := books.NewService(st.Books, st.Readings, edges)
	clubsSvc := clubs.NewService(st.Clubs, usersSvc, booksSvc, edges)
	booksSvc.SetClubLookup(clubsSvc)

	return &Services{
		Users:  usersSvc,
		Auth:   auth.NewService(usersSvc, tokens),
		Edges:  edges,
		Pets:   petsSvc,
		Groups: groupsSvc,
		Clubs:  clubsSvc,
		Books:  booksSvc,
	}
}

type Options struct {
	Services *Services

	// Verifier valida access tokens. nil => solo X-Debug-User-ID (dev).
	Verifier authport.AuthVerifier
	DevAuth  bool

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	svc := opts.Services

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(opts.Verifier, opts.DevAuth))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(api chi.Router) {
		// Públicas (logout exige auth adentro)
		auth.RegisterRoutes(api, svc.Auth)

		api.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireAuth)

			users.RegisterRoutes(pr, svc.Users)
			pets.RegisterRoutes(pr, svc.Pets)
			groups.RegisterRoutes(pr, svc.Groups)
			clubs.RegisterRoutes(pr, svc.Clubs)
			books.RegisterRoutes(pr, svc.Books)
		})
	})

	return r
}
