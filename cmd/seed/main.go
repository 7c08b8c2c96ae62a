package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/powdercoat/erp-backend/pkg/config"
	"github.com/powdercoat/erp-backend/pkg/db"
	"github.com/powdercoat/erp-backend/pkg/db/models"
	"github.com/powdercoat/erp-backend/pkg/logger"
	"github.com/powdercoat/erp-backend/pkg/migrate"
)

// Loads the demo dataset. Wipes every table first, so this is for dev
// databases only.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.AutoRun(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, table := range []string{"payments", "order_items", "orders", "products", "clients"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		phone := "+20xxxxxxxxx"
		clients := []models.Client{
			{Name: "Ahmed Ali", Phone: &phone},
			{Name: "Mona Saad"},
		}
		if err := tx.Create(&clients).Error; err != nil {
			return err
		}

		piece := "piece"
		kg := "kg"
		black := "RAL-9005"
		anthracite := "RAL-7016"
		products := []models.Product{
			{
				Name:             "Gate Panel",
				Color:            &black,
				Unit:             &piece,
				CostPrice:        decimal.NewFromInt(300),
				DefaultSalePrice: decimal.NewFromInt(500),
				StockQty:         decimal.NewFromInt(10),
			},
			{
				Name:             "Wheel Rim",
				Color:            &anthracite,
				Unit:             &piece,
				CostPrice:        decimal.NewFromInt(150),
				DefaultSalePrice: decimal.NewFromInt(250),
				StockQty:         decimal.NewFromInt(20),
			},
			{
				Name:             "Powder Paint (Black)",
				Color:            &black,
				Unit:             &kg,
				CostPrice:        decimal.NewFromInt(120),
				DefaultSalePrice: decimal.NewFromInt(200),
				StockQty:         decimal.NewFromInt(50),
			},
		}
		return tx.Create(&products).Error
	})
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seeded demo dataset")
}
