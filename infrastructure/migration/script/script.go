package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/seller-summary-api/infrastructure/database/postgres"
	"github.com/vfg2006/seller-summary-api/infrastructure/repository"
	"github.com/vfg2006/seller-summary-api/internal/config"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/pkg/log"
	"github.com/vfg2006/seller-summary-api/pkg/utils"
)

// sellerProfile descreve o volume de vendas gerado para cada vendedor de exemplo
type sellerProfile struct {
	Name          string
	ThisWeekSales int
	LastWeekSales int
	ReturnRate    float64
	MinPrice      int
	MaxPrice      int
}

// TechZone cai mais de 30%, GadgetHub devolve mais de 10%, EcoMart fica sem alertas
var profiles = []sellerProfile{
	{Name: "TechZone", ThisWeekSales: 100, LastWeekSales: 150, ReturnRate: 0.03, MinPrice: 50, MaxPrice: 1500},
	{Name: "GadgetHub", ThisWeekSales: 50, LastWeekSales: 50, ReturnRate: 0.12, MinPrice: 20, MaxPrice: 400},
	{Name: "EcoMart", ThisWeekSales: 80, LastWeekSales: 70, ReturnRate: 0.02, MinPrice: 5, MaxPrice: 120},
}

const windowDays = 7

func main() {
	reset := flag.Bool("reset", false, "apaga vendedores e vendas antes de popular")
	seed := flag.Uint64("seed", 42, "semente do gerador de vendas")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Configure(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("seeder: erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("seeder: erro ao criar o schema")
	}

	if *reset {
		if _, err := conn.Exec(ctx, "TRUNCATE sales, sellers RESTART IDENTITY"); err != nil {
			logrus.WithError(err).Fatal("seeder: erro ao limpar tabelas")
		}
		logrus.Info("seeder: tabelas limpas")
	}

	sellerRepo := repository.NewSellerRepository(conn)
	saleRepo := repository.NewSaleRepository(conn)

	rnd := rand.New(rand.NewPCG(*seed, uint64(len(profiles))))
	today := domain.CalendarDay(time.Now().In(cfg.App.Location))
	startTime := time.Now()

	for _, profile := range profiles {
		name := profile.Name
		seller := &domain.Seller{Name: &name}
		if err := sellerRepo.Save(ctx, seller); err != nil {
			logrus.WithError(err).Fatalf("seeder: erro ao inserir vendedor %s", profile.Name)
		}

		sales, err := generateSales(rnd, seller.ID, profile, today)
		if err != nil {
			logrus.WithError(err).Fatalf("seeder: erro ao gerar vendas de %s", profile.Name)
		}

		if err := saleRepo.SaveAll(ctx, sales); err != nil {
			logrus.WithError(err).Fatalf("seeder: erro ao inserir vendas de %s", profile.Name)
		}

		logrus.WithFields(logrus.Fields{
			"seller_id": seller.ID,
			"name":      profile.Name,
			"sales":     len(sales),
		}).Info("seeder: vendedor populado")
	}

	logrus.Infof("seeder: concluído em %v", time.Since(startTime))
}

// generateSales cria as vendas das duas janelas terminando em today
func generateSales(rnd *rand.Rand, sellerID int64, profile sellerProfile, today time.Time) ([]*domain.Sale, error) {
	sales := make([]*domain.Sale, 0, profile.ThisWeekSales+profile.LastWeekSales)

	returns := int(float64(profile.ThisWeekSales)*profile.ReturnRate + 0.5)
	for i := 0; i < profile.ThisWeekSales; i++ {
		sale, err := newSale(rnd, sellerID, profile, today.AddDate(0, 0, -rnd.IntN(windowDays)), i < returns)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	for i := 0; i < profile.LastWeekSales; i++ {
		returned := rnd.Float64() < profile.ReturnRate
		sale, err := newSale(rnd, sellerID, profile, today.AddDate(0, 0, -windowDays-rnd.IntN(windowDays)), returned)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

func newSale(rnd *rand.Rand, sellerID int64, profile sellerProfile, date time.Time, returned bool) (*domain.Sale, error) {
	reference, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	cents := int64(profile.MinPrice+rnd.IntN(profile.MaxPrice-profile.MinPrice+1))*100 + int64(rnd.IntN(100))

	return &domain.Sale{
		SellerID:  sellerID,
		Date:      date,
		Price:     decimal.New(cents, -2),
		Quantity:  1 + rnd.IntN(3),
		Returned:  returned,
		Reference: "ORD-" + reference,
	}, nil
}
