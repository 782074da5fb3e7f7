package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/api"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/scheduler"
	"github.com/vfg2006/ads-optimizer-api/internal/usecases/authenticating"
	"github.com/vfg2006/ads-optimizer-api/internal/usecases/optimizing"
	"github.com/vfg2006/ads-optimizer-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o formato e o nível de log com base na configuração
	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	adSetRepo := repository.NewAdSetRepository(pgConn)
	adRepo := repository.NewAdRepository(pgConn)
	insightRepo := repository.NewEntityInsightRepository(pgConn)
	auditRepo := repository.NewAuditLogRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	tokenManager := metaclient.NewTokenManager(cfg)
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	metaClient := metaclient.NewClient(cfg, tokenManager)
	metaIntegrator := meta.New(cfg, metaClient)

	// Monta o motor de otimização: análise, execução e orquestração de ciclos
	analyzer := optimizing.NewAnalyzer(adSetRepo, adRepo, campaignRepo, insightRepo)
	executor := optimizing.NewExecutor(adSetRepo, adRepo, auditRepo, metaIntegrator)
	cycleDriver := optimizing.NewCycleDriver(analyzer, executor, adSetRepo, adRepo, campaignRepo)

	cycleService := scheduler.NewOptimizationCycleService(cycleDriver, insightRepo, cfg)

	// Inicia o agendador de ciclos em background
	if err := cycleService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de ciclos de otimização")
	} else {
		logrus.Info("Agendador de ciclos de otimização iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		analyzer,
		cycleDriver,
		cycleService,
		auditRepo,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
