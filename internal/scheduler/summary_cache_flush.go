package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/seller-summary-api/infrastructure/cache"
	"github.com/vfg2006/seller-summary-api/internal/config"
)

// SummaryCacheFlushConfig representa a configuração do agendador de limpeza do cache
type SummaryCacheFlushConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// SummaryCacheFlushService apaga periodicamente os resumos guardados no cache,
// para que vendas carregadas com atraso apareçam no próximo cálculo.
type SummaryCacheFlushService struct {
	scheduler           *gocron.Scheduler
	config              SummaryCacheFlushConfig
	summaryCache        cache.SummaryCache
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRemovedKeys     int64
	lastError           string
}

func NewSummaryCacheFlushService(summaryCache cache.SummaryCache, appConfig *config.Config) *SummaryCacheFlushService {
	flushConfig := SummaryCacheFlushConfig{
		CronSchedule: appConfig.SummaryCacheFlush.CronSchedule,
		SyncEnabled:  appConfig.SummaryCacheFlush.Enabled,
	}

	location := appConfig.App.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": flushConfig.CronSchedule,
		"sync_enabled":  flushConfig.SyncEnabled,
	}).Info("Configuração do agendador de limpeza do cache de resumos carregada")

	return &SummaryCacheFlushService{
		scheduler:    gocron.NewScheduler(location),
		config:       flushConfig,
		summaryCache: summaryCache,
	}
}

// Start inicia o agendador
func (s *SummaryCacheFlushService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Limpeza agendada do cache de resumos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de limpeza do cache de resumos")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.flushSummaryCache(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza do cache de resumos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de limpeza do cache de resumos")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SummaryCacheFlushService) flushSummaryCache(ctx context.Context) {
	if !s.claimSync() {
		logrus.Info("Limpeza do cache de resumos já em andamento, ignorando")
		return
	}

	s.runFlush(ctx)
}

// claimSync marca a limpeza como em andamento. Quem recebe true é dono da
// execução e deve chamar runFlush.
func (s *SummaryCacheFlushService) claimSync() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()

	return true
}

func (s *SummaryCacheFlushService) runFlush(ctx context.Context) {
	removed, err := s.summaryCache.Flush(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastRemovedKeys = removed

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro ao limpar cache de resumos")
		return
	}
	s.lastError = ""

	logrus.WithFields(logrus.Fields{
		"removed_keys": removed,
		"duration_ms":  s.lastSyncCompletedAt.Sub(s.lastSyncStartedAt).Milliseconds(),
	}).Info("Cache de resumos limpo")
}

// TriggerManualSync dispara a limpeza fora do agendamento. Devolve false se
// já houver uma limpeza em andamento.
func (s *SummaryCacheFlushService) TriggerManualSync() bool {
	if !s.claimSync() {
		logrus.Info("Limpeza do cache de resumos já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando limpeza manual do cache de resumos")
	go s.runFlush(context.Background())

	return true
}

// GetStatus retorna o status atual da limpeza
func (s *SummaryCacheFlushService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_removed_keys":      s.lastRemovedKeys,
		"last_error":             s.lastError,
	}
}
