package router

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	appointmenthandler "github.com/jwalitptl/cancerguard-api/internal/handler/appointment"
	assessmenthandler "github.com/jwalitptl/cancerguard-api/internal/handler/assessment"
	authhandler "github.com/jwalitptl/cancerguard-api/internal/handler/auth"
	"github.com/jwalitptl/cancerguard-api/internal/handler/health"
	hospitalhandler "github.com/jwalitptl/cancerguard-api/internal/handler/hospital"
	prometheushandler "github.com/jwalitptl/cancerguard-api/internal/handler/prometheus"
	recoveryhandler "github.com/jwalitptl/cancerguard-api/internal/handler/recovery"
	"github.com/jwalitptl/cancerguard-api/internal/handler/status"
	testresulthandler "github.com/jwalitptl/cancerguard-api/internal/handler/testresult"
	userhandler "github.com/jwalitptl/cancerguard-api/internal/handler/user"
	"github.com/jwalitptl/cancerguard-api/internal/middleware"
	"github.com/jwalitptl/cancerguard-api/internal/service/appointment"
	"github.com/jwalitptl/cancerguard-api/internal/service/assessment"
	"github.com/jwalitptl/cancerguard-api/internal/service/auth"
	"github.com/jwalitptl/cancerguard-api/internal/service/hospital"
	"github.com/jwalitptl/cancerguard-api/internal/service/recovery"
	"github.com/jwalitptl/cancerguard-api/internal/service/testresult"
	"github.com/jwalitptl/cancerguard-api/internal/service/user"
	"github.com/jwalitptl/cancerguard-api/internal/session"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	"github.com/jwalitptl/cancerguard-api/internal/textgen"
	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
	"github.com/jwalitptl/cancerguard-api/pkg/security"
)

// Dependencies are the long lived collaborators the API is built from.
type Dependencies struct {
	Storage  storage.Storage
	TextGen  *textgen.Service
	Sessions *session.Manager
	Hasher   security.PasswordHasher
	Metrics  *metrics.Metrics
	// Gatherer backs the scrape endpoint; nil disables it.
	Gatherer prometheus.Gatherer
}

// Build wires services and handlers into a ready router.
func Build(deps Dependencies, config Config) *Router {
	var metricsHandler *prometheushandler.Handler
	if deps.Gatherer != nil {
		metricsHandler = prometheushandler.New(deps.Gatherer, deps.Metrics)
	}
	r := NewRouter(middleware.NewAuthMiddleware(deps.Sessions), metricsHandler, config)

	hospitals := hospital.NewService(deps.Storage, hospital.DefaultCacheTTL)

	r.Setup(
		[]handler.Routes{
			health.NewHandler(deps.Storage),
		},
		[]handler.Routes{
			authhandler.NewHandler(auth.NewService(deps.Storage, deps.Hasher), deps.Sessions),
			userhandler.NewHandler(user.NewService(deps.Storage, deps.Hasher)),
			testresulthandler.NewHandler(testresult.NewService(deps.Storage, deps.Metrics)),
			hospitalhandler.NewHandler(hospitals),
			assessmenthandler.NewHandler(assessment.NewService(deps.TextGen)),
			appointmenthandler.NewHandler(appointment.NewService(deps.Storage, hospitals)),
			recoveryhandler.NewHandler(recovery.NewService(deps.Storage)),
			status.NewHandler(deps.TextGen, deps.Storage),
		},
	)
	return r
}
