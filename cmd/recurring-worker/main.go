package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guvenlik-backend/internal/cogs"
	"guvenlik-backend/internal/config"
	"guvenlik-backend/internal/database"
	"guvenlik-backend/internal/exchange"
	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/recurring"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: "recurring-worker", Output: os.Stdout})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Konfigürasyon geçersiz", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("Veritabanına bağlanılamadı", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ledgerSvc := ledger.NewService(ledger.NewTransactionStore(db), cogs.NewDeriver(cogs.NewItemReader(db), exchange.NewRateStore(db)), logger)
	processor := recurring.NewProcessor(recurring.NewTemplateStore(db), ledgerSvc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := cfg.RecurringInterval
	logger.Info("Tekrarlayan işlem işleyicisi başlatıldı", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func(now time.Time) {
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("İşleme başarısız", "error", err)
			return
		}
		logger.Info("İşleme tamamlandı", "created", count, "next_check", now.Add(interval).Format("15:04:05"))
	}

	// açılışta bir kez
	run(time.Now())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				run(now)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Kapatma sinyali alındı", "signal", sig.String())
	cancel()
}
