package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
	"github.com/vfg2006/ads-optimizer-api/internal/scheduler"
	"github.com/vfg2006/ads-optimizer-api/internal/usecases/optimizing"
	"github.com/vfg2006/ads-optimizer-api/pkg/apiErrors"
	"github.com/vfg2006/ads-optimizer-api/pkg/utils"
)

// RunCycleRequest permite sobrescrever pontualmente a configuração do ciclo
// disparado via API. Campos omitidos herdam a configuração da aplicação.
type RunCycleRequest struct {
	AccountID *string `json:"account_id,omitempty"`
	DryRun    *bool   `json:"dry_run,omitempty"`
}

// RunOptimizationCycle dispara um ciclo de otimização síncrono e retorna o
// resultado completo. Ciclos simultâneos são rejeitados: tanto o agendador
// quanto esta rota compartilham a mesma exclusão.
func RunOptimizationCycle(
	driver *optimizing.CycleDriver,
	cycleService *scheduler.OptimizationCycleService,
	cfg *config.Config,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunOptimizationCycle")

		if cycleService != nil && cycleService.CycleRunning() {
			apiErrors.WriteError(w, apiErrors.ErrCycleAlreadyRuns, "Um ciclo de otimização já está em execução", nil)
			return
		}

		var req RunCycleRequest
		if r.Body != nil && r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
				return
			}
		}

		optCfg := cfg.Optimization
		if req.DryRun != nil {
			optCfg.DryRun = *req.DryRun
		}

		if err := optCfg.Validate(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidOptSetting, err.Error(), nil)
			return
		}

		result, err := driver.Run(r.Context(), req.AccountID, optCfg)
		if err != nil {
			logrus.WithError(err).Error("Erro ao executar ciclo de otimização via API")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar ciclo de otimização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// GetOptimizationStatus retorna o estado do agendador de ciclos e um resumo
// do último ciclo executado
func GetOptimizationStatus(cycleService *scheduler.OptimizationCycleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cycleService.GetStatus())
	}
}

// AnalyzeAdSet analisa um único conjunto de anúncios sob demanda, sem executar
// nem auditar a decisão resultante
func AnalyzeAdSet(analyzer *optimizing.Analyzer, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adSetID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adSetID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do conjunto de anúncios não fornecido", nil)
			return
		}

		decision, err := analyzer.AnalyzeAdSet(r.Context(), adSetID, cfg.Optimization)
		if err != nil {
			writeAnalysisError(w, err, "Erro ao analisar conjunto de anúncios")
			return
		}

		writeAnalysisResponse(w, domain.EntityTypeAdSet, adSetID, decision)
	}
}

// AnalyzeAd analisa um único anúncio sob demanda
func AnalyzeAd(analyzer *optimizing.Analyzer, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do anúncio não fornecido", nil)
			return
		}

		decision, err := analyzer.AnalyzeAd(r.Context(), adID, cfg.Optimization)
		if err != nil {
			writeAnalysisError(w, err, "Erro ao analisar anúncio")
			return
		}

		writeAnalysisResponse(w, domain.EntityTypeAd, adID, decision)
	}
}

func writeAnalysisError(w http.ResponseWriter, err error, message string) {
	if optimizing.IsNotFound(err) {
		apiErrors.WriteError(w, apiErrors.ErrEntityNotFound, "Entidade não encontrada ou inativa", nil)
		return
	}

	logrus.WithError(err).Error(message)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, nil)
}

// writeAnalysisResponse serializa a decisão da análise pontual. Uma entidade
// saudável produz decisão nula, o que também é uma resposta válida.
func writeAnalysisResponse(w http.ResponseWriter, entityType domain.EntityType, entityID string, decision *domain.Decision) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"entity_type": entityType,
		"entity_id":   entityID,
		"decision":    decision,
	})
}

// ListAuditLogs lista a trilha de auditoria do motor, com filtros opcionais
// por tipo e ID de entidade
func ListAuditLogs(auditRepo repository.AuditLogRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := domain.AuditLogFilters{}

		if rawType := r.URL.Query().Get("entity_type"); rawType != "" {
			entityType := domain.EntityType(rawType)
			if entityType != domain.EntityTypeAdSet && entityType != domain.EntityTypeAd {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Tipo de entidade inválido. Valores aceitos: AD_SET, AD", nil)
				return
			}
			filters.EntityType = &entityType
		}

		if entityID := r.URL.Query().Get("entity_id"); entityID != "" {
			filters.EntityID = &entityID
		}

		if rawFrom := r.URL.Query().Get("from"); rawFrom != "" {
			from, err := utils.ParseDate(rawFrom)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inicial inválida. Formato esperado: AAAA-MM-DD", nil)
				return
			}
			filters.From = from
		}

		if rawTo := r.URL.Query().Get("to"); rawTo != "" {
			to, err := utils.ParseDate(rawTo)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data final inválida. Formato esperado: AAAA-MM-DD", nil)
				return
			}
			filters.To = to
		}

		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			limit, err := strconv.Atoi(rawLimit)
			if err != nil || limit < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Limite inválido", nil)
				return
			}
			filters.Limit = limit
		}

		if rawOffset := r.URL.Query().Get("offset"); rawOffset != "" {
			offset, err := strconv.Atoi(rawOffset)
			if err != nil || offset < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Offset inválido", nil)
				return
			}
			filters.Offset = offset
		}

		entries, err := auditRepo.List(filters)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar trilha de auditoria")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar trilha de auditoria", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"audit_logs": entries,
			"count":      len(entries),
		})
	}
}
