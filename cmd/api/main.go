package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/seller-summary-api/infrastructure/cache"
	"github.com/vfg2006/seller-summary-api/infrastructure/database/postgres"
	"github.com/vfg2006/seller-summary-api/infrastructure/repository"
	"github.com/vfg2006/seller-summary-api/internal/api"
	"github.com/vfg2006/seller-summary-api/internal/config"
	"github.com/vfg2006/seller-summary-api/internal/scheduler"
	"github.com/vfg2006/seller-summary-api/internal/usecases/summarizing"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.LogFormat)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := pgConn.Migrate(ctx); err != nil {
			logrus.WithError(err).Fatal("Erro ao criar o schema do banco")
		}
		logrus.Info("Schema do banco verificado")
	}

	redisClient := redisconn(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sellerRepo := repository.NewSellerRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)

	summaryCache := cache.NewSummaryCache(redisClient, cfg.App.Location)

	thresholds := summarizing.DefaultThresholds()
	aggregator := summarizing.NewWindowAggregator(saleRepo, thresholds, cfg.App.Location)
	evaluator := summarizing.NewEvaluator(thresholds)
	summarizer := summarizing.NewService(sellerRepo, aggregator, evaluator, summaryCache)

	summaryCacheFlushService := scheduler.NewSummaryCacheFlushService(summaryCache, cfg)
	if err := summaryCacheFlushService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza do cache de resumos")
	}

	server, err := api.New(cfg, summarizer, summaryCacheFlushService)
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

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisconn conecta no Redis quando o cache está habilitado. Sem Redis o
// serviço segue funcionando, apenas sem cache.
func redisconn(ctx context.Context, redisConfig config.Redis) *redis.Client {
	client, err := cache.NewRedisClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Warn("Redis indisponível, seguindo sem cache de resumos")
		return nil
	}

	if client == nil {
		logrus.Info("Cache de resumos desabilitado por configuração")
		return nil
	}

	logrus.WithField("addr", redisConfig.Addr).Info("Conexão com Redis estabelecida com sucesso")
	return client
}
