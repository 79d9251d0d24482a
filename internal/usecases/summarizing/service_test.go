package summarizing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cachemocks "github.com/vfg2006/seller-summary-api/infrastructure/cache/mocks"
	"github.com/vfg2006/seller-summary-api/infrastructure/repository/mocks"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

// salesFor gera `count` vendas de 10.00 no dia informado, as primeiras `returned` devolvidas
func salesFor(sellerID int64, date time.Time, count, returned int) []*domain.Sale {
	sales := make([]*domain.Sale, 0, count)
	for i := 0; i < count; i++ {
		sales = append(sales, sale(sellerID, date, "10.00", 1, i < returned))
	}
	return sales
}

func TestService_GetSellerSummary(t *testing.T) {
	asOf := day(2025, 3, 14)
	thisWeekDay := day(2025, 3, 12)
	lastWeekDay := day(2025, 3, 5)

	type deps struct {
		sellers *mocks.MockSellerRepository
		sales   *mocks.MockSaleRepository
		cache   *cachemocks.MockSummaryCache
	}

	tests := []struct {
		name         string
		sellerID     int64
		withCache    bool
		setup        func(d deps)
		expectedKind ErrorKind
		validate     func(t *testing.T, summary *domain.SellerSummary)
	}{
		{
			name:         "Cenário E - id zero falha antes de qualquer acesso",
			sellerID:     0,
			withCache:    true,
			setup:        func(d deps) {},
			expectedKind: KindInvalidIdentifier,
		},
		{
			name:         "Cenário E - id negativo falha antes de qualquer acesso",
			sellerID:     -1,
			withCache:    true,
			setup:        func(d deps) {},
			expectedKind: KindInvalidIdentifier,
		},
		{
			name:     "Cenário D - vendedor inexistente",
			sellerID: 999,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(999)).Return(nil, nil)
			},
			expectedKind: KindSellerNotFound,
		},
		{
			name:     "erro ao buscar vendedor vira StorageFailure",
			sellerID: 1,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("timeout"))
			},
			expectedKind: KindStorageFailure,
		},
		{
			name:     "erro ao buscar vendas vira StorageFailure",
			sellerID: 1,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(1)).
					Return(&domain.Seller{ID: 1, Name: stringPtr("TechZone")}, nil)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("timeout"))
			},
			expectedKind: KindStorageFailure,
		},
		{
			name:     "Cenário A - queda de vendas",
			sellerID: 1,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(1)).
					Return(&domain.Seller{ID: 1, Name: stringPtr("TechZone")}, nil)
				sales := append(salesFor(1, thisWeekDay, 100, 3), salesFor(1, lastWeekDay, 150, 0)...)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(1), day(2025, 3, 1), asOf).
					Return(sales, nil)
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, "TechZone", summary.Name)
				assert.Equal(t, int64(100), summary.TotalSalesThisWeek)
				assert.Equal(t, "1000.00", summary.TotalRevenueThisWeek.StringFixed(2))
				assert.Equal(t, "3.00", summary.ReturnRate.StringFixed(2))
				assert.Equal(t, []string{AlertSalesDrop}, summary.Alerts)
			},
		},
		{
			name:     "Cenário B - sem vendas",
			sellerID: 2,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(2)).
					Return(&domain.Seller{ID: 2, Name: stringPtr("GadgetHub")}, nil)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
					Return([]*domain.Sale{}, nil)
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, int64(0), summary.TotalSalesThisWeek)
				assert.True(t, summary.ReturnRate.IsZero())
				assert.True(t, summary.TotalRevenueThisWeek.IsZero())
				assert.NotNil(t, summary.Alerts)
				assert.Empty(t, summary.Alerts)
			},
		},
		{
			name:     "Cenário C - devolução alta",
			sellerID: 3,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(3)).
					Return(&domain.Seller{ID: 3, Name: stringPtr("EcoMart")}, nil)
				sales := append(salesFor(3, thisWeekDay, 50, 6), salesFor(3, lastWeekDay, 50, 0)...)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
					Return(sales, nil)
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, "12.00", summary.ReturnRate.StringFixed(2))
				assert.Equal(t, []string{AlertHighReturnRate}, summary.Alerts)
			},
		},
		{
			name:     "vendedor sem nome devolve nome vazio",
			sellerID: 4,
			setup: func(d deps) {
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&domain.Seller{ID: 4}, nil)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(4), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, "", summary.Name)
			},
		},
		{
			name:      "cache hit não consulta o banco",
			sellerID:  1,
			withCache: true,
			setup: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), int64(1), asOf).Return(&domain.SellerSummary{
					Name:                 "TechZone",
					TotalSalesThisWeek:   5,
					TotalRevenueThisWeek: decimal.RequireFromString("50.00"),
					ReturnRate:           decimal.Zero,
					Alerts:               []string{},
				}, nil)
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, int64(5), summary.TotalSalesThisWeek)
			},
		},
		{
			name:      "cache miss calcula e grava",
			sellerID:  1,
			withCache: true,
			setup: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), int64(1), asOf).Return(nil, nil)
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(1)).
					Return(&domain.Seller{ID: 1, Name: stringPtr("TechZone")}, nil)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
					Return(salesFor(1, thisWeekDay, 2, 0), nil)
				d.cache.EXPECT().Set(gomock.Any(), int64(1), asOf, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ int64, _ time.Time, summary *domain.SellerSummary) error {
						assert.Equal(t, int64(2), summary.TotalSalesThisWeek)
						return nil
					})
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, "20.00", summary.TotalRevenueThisWeek.StringFixed(2))
			},
		},
		{
			name:      "falhas do cache não derrubam a requisição",
			sellerID:  1,
			withCache: true,
			setup: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), int64(1), asOf).Return(nil, errors.New("redis down"))
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(1)).
					Return(&domain.Seller{ID: 1, Name: stringPtr("TechZone")}, nil)
				d.sales.EXPECT().GetByDateRange(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
					Return(salesFor(1, thisWeekDay, 1, 0), nil)
				d.cache.EXPECT().Set(gomock.Any(), int64(1), asOf, gomock.Any()).Return(errors.New("redis down"))
			},
			validate: func(t *testing.T, summary *domain.SellerSummary) {
				assert.Equal(t, int64(1), summary.TotalSalesThisWeek)
			},
		},
		{
			name:      "vendedor inexistente não é gravado no cache",
			sellerID:  77,
			withCache: true,
			setup: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), int64(77), asOf).Return(nil, nil)
				d.sellers.EXPECT().GetByID(gomock.Any(), int64(77)).Return(nil, nil)
			},
			expectedKind: KindSellerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			d := deps{
				sellers: mocks.NewMockSellerRepository(ctrl),
				sales:   mocks.NewMockSaleRepository(ctrl),
				cache:   cachemocks.NewMockSummaryCache(ctrl),
			}
			tt.setup(d)

			aggregator := NewWindowAggregator(d.sales, DefaultThresholds(), time.UTC)
			evaluator := NewEvaluator(DefaultThresholds())

			var service Summarizer
			if tt.withCache {
				service = NewService(d.sellers, aggregator, evaluator, d.cache)
			} else {
				service = NewService(d.sellers, aggregator, evaluator, nil)
			}

			summary, err := service.GetSellerSummary(context.Background(), tt.sellerID, asOf)

			if tt.expectedKind != KindUnknown {
				require.Error(t, err)
				assert.Nil(t, summary)
				assert.Equal(t, tt.expectedKind, KindOf(err))

				var summaryErr *SummaryError
				require.True(t, errors.As(err, &summaryErr))
				assert.Equal(t, tt.sellerID, summaryErr.SellerID)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, summary)
			tt.validate(t, summary)
		})
	}
}

func TestService_SameInputSameSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sellers := mocks.NewMockSellerRepository(ctrl)
	sales := mocks.NewMockSaleRepository(ctrl)

	rows := append(salesFor(1, day(2025, 3, 10), 9, 2), salesFor(1, day(2025, 3, 4), 20, 0)...)
	sellers.EXPECT().GetByID(gomock.Any(), int64(1)).
		Return(&domain.Seller{ID: 1, Name: stringPtr("TechZone")}, nil).Times(2)
	sales.EXPECT().GetByDateRange(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		Return(rows, nil).Times(2)

	service := NewService(sellers, NewWindowAggregator(sales, DefaultThresholds(), time.UTC), NewEvaluator(DefaultThresholds()), nil)

	first, err := service.GetSellerSummary(context.Background(), 1, day(2025, 3, 14))
	require.NoError(t, err)
	second, err := service.GetSellerSummary(context.Background(), 1, day(2025, 3, 14))
	require.NoError(t, err)

	assert.Equal(t, first.Alerts, second.Alerts)
	assert.Equal(t, first.TotalSalesThisWeek, second.TotalSalesThisWeek)
	assert.True(t, first.ReturnRate.Equal(second.ReturnRate))
	assert.Equal(t, "22.22", first.ReturnRate.StringFixed(2))
	assert.Equal(t, []string{AlertSalesDrop, AlertHighReturnRate}, first.Alerts)
}
