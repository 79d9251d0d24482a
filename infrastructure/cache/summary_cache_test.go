package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/seller-summary-api/internal/config"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/internal/metrics"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

// newTestCache sobe um Redis em memória e fixa o relógio do cache em now
func newTestCache(t *testing.T, now time.Time, location *time.Location) (*summaryCache, *miniredis.Miniredis) {
	t.Helper()
	log.SetupTestLogger()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	c := NewSummaryCache(client, location).(*summaryCache)
	c.now = func() time.Time { return now }

	return c, mr
}

func testSummary() *domain.SellerSummary {
	return &domain.SellerSummary{
		Name:                 "TechZone",
		TotalSalesThisWeek:   100,
		TotalRevenueThisWeek: decimal.RequireFromString("12345.50"),
		ReturnRate:           decimal.RequireFromString("3.00"),
		Alerts:               []string{"Sales dropped by more than 30% vs last week"},
	}
}

func TestKey(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name     string
		sellerID int64
		asOf     time.Time
		expected string
	}{
		{
			name:     "meia-noite UTC",
			sellerID: 1,
			asOf:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			expected: "seller:summary:1:2025-03-10",
		},
		{
			name:     "horário é descartado",
			sellerID: 42,
			asOf:     time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			expected: "seller:summary:42:2025-03-10",
		},
		{
			name:     "dia como visto no fuso da data",
			sellerID: 7,
			asOf:     time.Date(2025, 3, 10, 22, 0, 0, 0, saoPaulo),
			expected: "seller:summary:7:2025-03-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.sellerID, tt.asOf))
		})
	}
}

func TestTTLUntilMidnight(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name     string
		now      time.Time
		location *time.Location
		expected time.Duration
	}{
		{
			name:     "meio do dia",
			now:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			location: time.UTC,
			expected: 12 * time.Hour,
		},
		{
			name:     "exatamente meia-noite dura um dia",
			now:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			location: time.UTC,
			expected: 24 * time.Hour,
		},
		{
			name:     "último instante do dia respeita o mínimo",
			now:      time.Date(2025, 3, 10, 23, 59, 59, 500_000_000, time.UTC),
			location: time.UTC,
			expected: time.Second,
		},
		{
			name:     "meia-noite do fuso configurado",
			now:      time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), // 22h em São Paulo
			location: saoPaulo,
			expected: 2 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TTLUntilMidnight(tt.now, tt.location))
		})
	}
}

func TestSummaryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(nil, time.UTC)
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	err := c.Set(ctx, 1, asOf, &domain.SellerSummary{
		Name:                 "TechZone",
		TotalSalesThisWeek:   10,
		TotalRevenueThisWeek: decimal.RequireFromString("100.00"),
		ReturnRate:           decimal.Zero,
		Alerts:               []string{},
	})
	assert.NoError(t, err)

	summary, err := c.Get(ctx, 1, asOf)
	assert.NoError(t, err)
	assert.Nil(t, summary)

	removed, err := c.Flush(ctx)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), config.Redis{Enabled: false, Addr: "localhost:6379"})

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestSummaryCache_Get(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setup         func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis)
		expected      *domain.SellerSummary
		expectedLabel string
	}{
		{
			name: "hit devolve o resumo com os decimais",
			setup: func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis) {
				require.NoError(t, c.Set(context.Background(), 1, asOf, testSummary()))
			},
			expected:      testSummary(),
			expectedLabel: cacheHit,
		},
		{
			name:          "chave ausente é miss",
			setup:         func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis) {},
			expectedLabel: cacheMiss,
		},
		{
			name: "valor corrompido é tratado como miss",
			setup: func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis) {
				require.NoError(t, mr.Set(Key(1, asOf), "{não é json"))
			},
			expectedLabel: cacheMiss,
		},
		{
			name: "erro do Redis não propaga",
			setup: func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis) {
				require.NoError(t, c.client.Ping(context.Background()).Err())
				mr.SetError("ERR falha simulada")
			},
			expectedLabel: cacheMiss,
		},
		{
			name: "resumo de outro dia não é reaproveitado",
			setup: func(t *testing.T, c *summaryCache, mr *miniredis.Miniredis) {
				require.NoError(t, c.Set(context.Background(), 1, asOf.AddDate(0, 0, -1), testSummary()))
			},
			expectedLabel: cacheMiss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newTestCache(t, now, time.UTC)
			tt.setup(t, c, mr)

			counter := metrics.SummaryCacheRequestsTotal.WithLabelValues(tt.expectedLabel)
			before := testutil.ToFloat64(counter)

			summary, err := c.Get(context.Background(), 1, asOf)
			require.NoError(t, err)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))

			if tt.expected == nil {
				assert.Nil(t, summary)
				return
			}

			require.NotNil(t, summary)
			assert.Equal(t, tt.expected.Name, summary.Name)
			assert.Equal(t, tt.expected.TotalSalesThisWeek, summary.TotalSalesThisWeek)
			assert.Equal(t, "12345.50", summary.TotalRevenueThisWeek.StringFixed(2))
			assert.True(t, tt.expected.TotalRevenueThisWeek.Equal(summary.TotalRevenueThisWeek))
			assert.Equal(t, "3.00", summary.ReturnRate.StringFixed(2))
			assert.Equal(t, tt.expected.Alerts, summary.Alerts)
		})
	}
}

func TestSummaryCache_GetEmptyAlerts(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	c, mr := newTestCache(t, asOf, time.UTC)

	require.NoError(t, mr.Set(Key(3, asOf), `{"name":"EcoMart","total_sales_this_week":80,"total_revenue_this_week":"10","return_rate":"0","alerts":null}`))

	summary, err := c.Get(context.Background(), 3, asOf)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.NotNil(t, summary.Alerts)
	assert.Empty(t, summary.Alerts)
}

func TestSummaryCache_SetTTL(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		location *time.Location
		expected time.Duration
	}{
		{
			name:     "expira na meia-noite UTC",
			now:      time.Date(2025, 3, 10, 11, 39, 10, 0, time.UTC),
			location: time.UTC,
			expected: 12*time.Hour + 20*time.Minute + 50*time.Second,
		},
		{
			name:     "expira na meia-noite do fuso configurado",
			now:      time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), // 22h em São Paulo
			location: saoPaulo,
			expected: 2 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newTestCache(t, tt.now, tt.location)

			require.NoError(t, c.Set(context.Background(), 1, asOf, testSummary()))

			assert.True(t, mr.Exists(Key(1, asOf)))
			assert.Equal(t, tt.expected, mr.TTL(Key(1, asOf)))
		})
	}
}

func TestSummaryCache_SetError(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	c, mr := newTestCache(t, asOf, time.UTC)
	require.NoError(t, c.client.Ping(context.Background()).Err())
	mr.SetError("ERR falha simulada")

	err := c.Set(context.Background(), 1, asOf, testSummary())
	assert.Error(t, err)

	// Resumo nil não chega ao Redis
	assert.NoError(t, c.Set(context.Background(), 1, asOf, nil))
}

func TestSummaryCache_Flush(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sellers  int
		expected int64
	}{
		{name: "cache vazio", sellers: 0, expected: 0},
		{name: "menos que um lote", sellers: 3, expected: 3},
		{name: "exatamente um lote", sellers: flushBatch, expected: flushBatch},
		{name: "vários lotes", sellers: 2*flushBatch + 201, expected: 2*flushBatch + 201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newTestCache(t, asOf, time.UTC)
			ctx := context.Background()

			for i := 1; i <= tt.sellers; i++ {
				require.NoError(t, c.Set(ctx, int64(i), asOf, testSummary()))
			}
			// Chaves de fora do prefixo ficam intactas
			require.NoError(t, mr.Set("seller:session:1", "abc"))

			before := testutil.ToFloat64(metrics.SummaryCacheFlushedKeysTotal)

			removed, err := c.Flush(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, removed)
			assert.Equal(t, before+float64(tt.expected), testutil.ToFloat64(metrics.SummaryCacheFlushedKeysTotal))
			assert.Equal(t, []string{"seller:session:1"}, mr.Keys())

			summary, err := c.Get(ctx, 1, asOf)
			require.NoError(t, err)
			assert.Nil(t, summary)
		})
	}
}

func TestSummaryCache_FlushError(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	c, mr := newTestCache(t, asOf, time.UTC)
	require.NoError(t, c.Set(context.Background(), 1, asOf, testSummary()))

	mr.SetError("ERR falha simulada")

	removed, err := c.Flush(context.Background())
	assert.Error(t, err)
	assert.Zero(t, removed)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), config.Redis{Enabled: true, Addr: addr})
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.Redis{Enabled: true, Addr: addr})
	assert.ErrorContains(t, err, fmt.Sprintf("erro ao conectar no redis %s", addr))
}
