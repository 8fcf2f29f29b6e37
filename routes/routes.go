package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecretKey string,
	matchHandler *handlers.MatchHandler,
	disputeHandler *handlers.DisputeHandler,
	standingsHandler *handlers.StandingsHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	// Live dashboard feed. Browsers cannot set an Authorization header on a
	// WebSocket handshake, so this stays outside the authenticated group.
	router.Get("/ws/orgs/{orgID}", webSocketHandler.ServeOrgRoom)

	router.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecretKey))

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListMatches)
			r.Get("/{matchID}", matchHandler.GetMatch)

			r.Post("/{matchID}/submit-result", matchHandler.SubmitResult)
			r.Post("/{matchID}/confirm-result", matchHandler.ConfirmResult)
			r.Post("/{matchID}/disputes", disputeHandler.OpenDispute)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleOwner, models.RoleAdmin))
				r.Post("/", matchHandler.CreateMatch)
				r.Put("/{matchID}/status", matchHandler.SetStatus)
				r.Delete("/{matchID}", matchHandler.DeleteMatch)
			})
		})

		r.Route("/disputes", func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleOwner, models.RoleAdmin))
			r.Post("/{disputeID}/ruling", disputeHandler.ResolveDispute)
		})

		r.Route("/seasons/{seasonID}", func(r chi.Router) {
			r.Get("/standings", standingsHandler.GetStandings)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleOwner, models.RoleAdmin))
				r.Post("/recompute-standings", standingsHandler.RecomputeStandings)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListTeams)
			r.Get("/{teamID}", teamHandler.GetTeam)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		})
	})
}
