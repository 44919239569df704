package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guvenlik-backend/internal/config"
	"guvenlik-backend/internal/database"
	"guvenlik-backend/internal/exchange"
	"guvenlik-backend/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: "rate-fetcher", Output: os.Stdout})
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

	fetcher := exchange.NewFetcher(exchange.NewTCMBClient(cfg.TCMBURL, cfg.RateFetchTimeout), exchange.NewRateStore(db), logger).
		WithTimeout(2 * cfg.RateFetchTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := cfg.RateFetchInterval
	logger.Info("Kur çekici başlatıldı", "interval", interval, "url", cfg.TCMBURL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// hata durumunda kayıtlı kurlar değişmez, bir sonraki turda tekrar denenir
	run := func() {
		r, err := fetcher.FetchAndStore(ctx)
		if err != nil {
			logger.Error("Kur çekilemedi", "error", err)
			return
		}
		logger.Info("Kur güncellendi", "currency", r.Currency, "date", r.RateDate.Format("2006-01-02"), "rate", r.EffectiveRate.String())
	}

	run()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Kapatma sinyali alındı", "signal", sig.String())
	cancel()
}
