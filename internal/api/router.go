package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/greetly/api/internal/api/handlers"
	mw "github.com/greetly/api/internal/api/middleware"
	"github.com/greetly/api/internal/policy"
)

type Dependencies struct {
	Policy         policy.Config
	MaxBodyBytes   int64
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Ordered chain: CORS must run before routing so every OPTIONS
	// request, matched route or not, terminates with its headers set.
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.Policy))
	r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	r.Use(mw.BodyLimit(dep.MaxBodyBytes))
	r.Use(chimid.Compress(5))

	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	gh := handlers.NewGreetHandler()
	r.Get("/greet", gh.Greet)
	r.Post("/greetme", gh.GreetMe)

	return r
}
