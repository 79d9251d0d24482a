package api

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/seller-summary-api/internal/api/handler"
	"github.com/vfg2006/seller-summary-api/internal/api/handler/router"
	"github.com/vfg2006/seller-summary-api/internal/config"
	"github.com/vfg2006/seller-summary-api/internal/scheduler"
	"github.com/vfg2006/seller-summary-api/internal/usecases/summarizing"
	"github.com/vfg2006/seller-summary-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	config     config.Server
}

func New(
	cfg *config.Config,
	summarizer summarizing.Summarizer,
	summaryCacheFlushService *scheduler.SummaryCacheFlushService,
) (*Server, error) {
	options := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.SellerSummary(summarizer)...),
	}

	// Rotas de cron não têm autenticação, só existem com a limpeza habilitada
	if cfg.SummaryCacheFlush.Enabled {
		cronServices := handler.CronJobServices{
			SummaryCacheFlushService: summaryCacheFlushService,
		}
		options = append(options, router.WithRoutes(handler.CronJobs(cronServices)...))
	}

	rt := router.New(options...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Cors.AllowedOrigins),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		},
		config: cfg.Server,
	}

	return srv, nil
}

// Handler expõe o handler HTTP completo (middlewares + rotas)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	case err := <-serverErr:
		logrus.WithError(err).Error("Erro durante a execução do servidor")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": s.config.ShutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
