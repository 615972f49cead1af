package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oharrington/thirdline-backend/api/controllers"
	"github.com/oharrington/thirdline-backend/api/middleware"
	"github.com/oharrington/thirdline-backend/internal/workflow"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: health probes, metrics and the
// workflow hook endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	engine *workflow.Engine,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, dbP, redisP, logg))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/workflows", func(r chi.Router) {
		r.Post("/profiles/start", controllers.StartProfileWorkflow(engine, logg))
		r.Post("/profiles/approval", controllers.ProfileApproval(engine, logg))
		r.Post("/questionnaires/submitted", controllers.DDQSubmitted(engine, logg))
		r.Post("/scorecards/submitted", controllers.ScorecardSubmitted(engine, logg))
		r.Post("/cases/review", controllers.CaseFolderReview(engine, logg))
		r.Post("/invitations/manual-send", controllers.ManualSend(engine, logg))
		r.Get("/batch-review/availability", controllers.BatchReviewAvailability(engine, logg))
		r.Post("/batch-review/launch", controllers.InitialReviewBatchLaunch(engine, logg))
	})

	return r
}
