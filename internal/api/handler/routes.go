package handler

import (
	"net/http"

	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/api/handler/router"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/scheduler"
	"github.com/vfg2006/ads-optimizer-api/internal/usecases/authenticating"
	"github.com/vfg2006/ads-optimizer-api/internal/usecases/optimizing"
	"github.com/vfg2006/ads-optimizer-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Optimization retorna as rotas do motor de otimização: disparo e status de
// ciclos, análises pontuais e trilha de auditoria
func Optimization(
	analyzer *optimizing.Analyzer,
	driver *optimizing.CycleDriver,
	cycleService *scheduler.OptimizationCycleService,
	auditRepo repository.AuditLogRepository,
	cfg *config.Config,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/optimization/run",
			Method:      http.MethodPost,
			Handler:     RunOptimizationCycle(driver, cycleService, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/optimization/status",
			Method:      http.MethodGet,
			Handler:     GetOptimizationStatus(cycleService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/optimization/adsets/:id/analysis",
			Method:      http.MethodGet,
			Handler:     AnalyzeAdSet(analyzer, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/optimization/ads/:id/analysis",
			Method:      http.MethodGet,
			Handler:     AnalyzeAd(analyzer, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/optimization/audit-logs",
			Method:      http.MethodGet,
			Handler:     ListAuditLogs(auditRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
