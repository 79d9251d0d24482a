package cache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/seller-summary-api/internal/config"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/internal/metrics"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

//go:generate mockgen -source=summary_cache.go -destination=mocks/mock_summary_cache.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	keyPrefix     = "seller:summary:"
	flushBatch    = 500
	minTTL        = time.Second
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheDisabled = "disabled"
)

type SummaryCache interface {
	// Get devolve nil, nil em cache miss, cache desligado ou falha do Redis
	Get(ctx context.Context, sellerID int64, asOf time.Time) (*domain.SellerSummary, error)
	Set(ctx context.Context, sellerID int64, asOf time.Time, summary *domain.SellerSummary) error
	// Flush remove todos os resumos guardados e devolve quantas chaves saíram
	Flush(ctx context.Context) (int64, error)
}

type summaryCache struct {
	client   *redis.Client
	location *time.Location
	now      func() time.Time
}

// NewSummaryCache cria o cache de resumos. Com client nil o cache fica
// desligado e todas as operações viram no-op.
func NewSummaryCache(client *redis.Client, location *time.Location) SummaryCache {
	if location == nil {
		location = time.Local
	}

	return &summaryCache{
		client:   client,
		location: location,
		now:      time.Now,
	}
}

// NewRedisClient abre a conexão com o Redis. Devolve nil, nil quando o cache
// está desligado na configuração.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "erro ao conectar no redis %s", cfg.Addr)
	}

	return client, nil
}

// Key monta a chave do resumo: seller:summary:<id>:<YYYY-MM-DD>
func Key(sellerID int64, asOf time.Time) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, sellerID, domain.CalendarDay(asOf).Format(time.DateOnly))
}

// TTLUntilMidnight devolve o tempo até a próxima meia-noite no fuso informado,
// nunca menos de um segundo.
func TTLUntilMidnight(now time.Time, location *time.Location) time.Duration {
	local := now.In(location)
	midnight := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, location)

	ttl := midnight.Sub(local)
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}

func (c *summaryCache) Get(ctx context.Context, sellerID int64, asOf time.Time) (*domain.SellerSummary, error) {
	if c.client == nil {
		metrics.SummaryCacheRequestsTotal.WithLabelValues(cacheDisabled).Inc()
		return nil, nil
	}

	key := Key(sellerID, asOf)
	logger := log.ForContext(ctx).WithField("seller_id", sellerID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.SummaryCacheRequestsTotal.WithLabelValues(cacheMiss).Inc()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logger.WithError(err).Warnf("cache: erro ao ler %s", key)
		return nil, nil
	}

	var summary domain.SellerSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		metrics.SummaryCacheRequestsTotal.WithLabelValues(cacheMiss).Inc()
		logger.WithError(err).Warnf("cache: valor inválido em %s", key)
		return nil, nil
	}

	if summary.Alerts == nil {
		summary.Alerts = []string{}
	}

	metrics.SummaryCacheRequestsTotal.WithLabelValues(cacheHit).Inc()
	logger.Debugf("cache: hit em %s", key)

	return &summary, nil
}

func (c *summaryCache) Set(ctx context.Context, sellerID int64, asOf time.Time, summary *domain.SellerSummary) error {
	if c.client == nil || summary == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar resumo")
	}

	key := Key(sellerID, asOf)
	ttl := TTLUntilMidnight(c.now(), c.location)

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "erro ao gravar %s", key)
	}

	log.ForContext(ctx).WithField("seller_id", sellerID).Debugf("cache: %s gravado por %s", key, ttl)

	return nil
}

func (c *summaryCache) Flush(ctx context.Context) (int64, error) {
	if c.client == nil {
		return 0, nil
	}

	var removed int64
	batch := make([]string, 0, flushBatch)

	deleteBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return errors.Wrap(err, "erro ao remover chaves do cache")
		}
		removed += n
		batch = batch[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, keyPrefix+"*", flushBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == flushBatch {
			if err := deleteBatch(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, errors.Wrap(err, "erro ao varrer chaves do cache")
	}

	if err := deleteBatch(); err != nil {
		return removed, err
	}

	metrics.SummaryCacheFlushedKeysTotal.Add(float64(removed))

	return removed, nil
}
