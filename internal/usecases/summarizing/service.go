package summarizing

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vfg2006/seller-summary-api/infrastructure/cache"
	"github.com/vfg2006/seller-summary-api/infrastructure/repository"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/internal/metrics"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_summarizer.go -package=mocks

type Summarizer interface {
	// GetSellerSummary devolve o resumo completo ou um *SummaryError
	GetSellerSummary(ctx context.Context, sellerID int64, asOf time.Time) (*domain.SellerSummary, error)
}

type Service struct {
	sellerRepository repository.SellerRepository
	aggregator       *WindowAggregator
	evaluator        *Evaluator
	summaryCache     cache.SummaryCache
}

// NewService monta o fluxo do resumo. summaryCache pode ser nil.
func NewService(
	sellerRepository repository.SellerRepository,
	aggregator *WindowAggregator,
	evaluator *Evaluator,
	summaryCache cache.SummaryCache,
) Summarizer {
	return &Service{
		sellerRepository: sellerRepository,
		aggregator:       aggregator,
		evaluator:        evaluator,
		summaryCache:     summaryCache,
	}
}

func (s *Service) GetSellerSummary(ctx context.Context, sellerID int64, asOf time.Time) (*domain.SellerSummary, error) {
	summary, err := s.getSellerSummary(ctx, sellerID, asOf)
	if err != nil {
		metrics.SummaryErrorsTotal.WithLabelValues(KindOf(err).String()).Inc()
		return nil, err
	}

	return summary, nil
}

func (s *Service) getSellerSummary(ctx context.Context, sellerID int64, asOf time.Time) (*domain.SellerSummary, error) {
	if sellerID <= 0 {
		return nil, NewSummaryError(KindInvalidIdentifier, sellerID, ErrInvalidIdentifier)
	}

	day := s.aggregator.Window(asOf).AsOf
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"seller_id": sellerID,
		"as_of":     day.Format(time.DateOnly),
	})

	if s.summaryCache != nil {
		cached, err := s.summaryCache.Get(ctx, sellerID, day)
		if err != nil {
			logger.WithError(err).Warn("summarizing: erro ao consultar cache, recalculando")
		} else if cached != nil {
			return cached, nil
		}
	}

	timer := prometheus.NewTimer(metrics.SummaryDuration)
	defer timer.ObserveDuration()

	seller, err := s.sellerRepository.GetByID(ctx, sellerID)
	if err != nil {
		logger.WithError(err).Error("summarizing: erro ao buscar vendedor")
		return nil, NewSummaryError(KindStorageFailure, sellerID, err)
	}
	if seller == nil {
		return nil, NewSummaryError(KindSellerNotFound, sellerID, ErrSellerNotFound)
	}

	windowMetrics, err := s.aggregator.Aggregate(ctx, sellerID, day)
	if err != nil {
		return nil, err
	}

	summary, err := s.evaluator.Evaluate(true, seller.DisplayName(), *windowMetrics)
	if err != nil {
		return nil, err
	}

	metrics.SummariesComputedTotal.Inc()
	for _, alert := range summary.Alerts {
		metrics.AlertsFiredTotal.WithLabelValues(alert).Inc()
	}

	if s.summaryCache != nil {
		if err := s.summaryCache.Set(ctx, sellerID, day, summary); err != nil {
			logger.WithError(err).Warn("summarizing: erro ao gravar resumo no cache")
		}
	}

	logger.WithField("alerts", len(summary.Alerts)).Info("summarizing: resumo calculado")

	return summary, nil
}
