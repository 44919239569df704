package exchange

import (
	"context"
	"time"

	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"golang.org/x/sync/singleflight"
)

// QuoteSource supplies the day's quote for a currency.
type QuoteSource interface {
	Fetch(ctx context.Context) (Quote, error)
}

// RateWriter is the part of the rate store the fetcher needs.
type RateWriter interface {
	Upsert(ctx context.Context, r *models.ExchangeRate) error
	OnDate(ctx context.Context, currency string, date time.Time) (*models.ExchangeRate, error)
}

const defaultFetchTimeout = 30 * time.Second

type Fetcher struct {
	source  QuoteSource
	store   RateWriter
	logger  *log.Logger
	timeout time.Duration
	group   singleflight.Group
}

func NewFetcher(source QuoteSource, store RateWriter, logger *log.Logger) *Fetcher {
	return &Fetcher{source: source, store: store, logger: logger.WithComponent("exchange"), timeout: defaultFetchTimeout}
}

// WithTimeout bounds the shared fetch (feed + store write).
func (f *Fetcher) WithTimeout(d time.Duration) *Fetcher {
	if d > 0 {
		f.timeout = d
	}
	return f
}

// FetchAndStore reads the feed and upserts a single row. Nothing is written
// unless the whole quote is usable. Concurrent callers share one fetch; the
// shared fetch runs detached from any single caller, so a caller that gives
// up only stops waiting.
func (f *Fetcher) FetchAndStore(ctx context.Context) (*models.ExchangeRate, error) {
	ch := f.group.DoChan("fetch", func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.fetch(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.DebugContext(ctx, "kur çekimi paylaşıldı")
		}
		return res.Val.(*models.ExchangeRate), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context) (*models.ExchangeRate, error) {
	q, err := f.source.Fetch(ctx)
	if err != nil {
		f.logger.WarnContext(ctx, "kur kaynağına ulaşılamadı", "error", err)
		return nil, err
	}

	r := &models.ExchangeRate{
		Currency:      q.Currency,
		RateDate:      q.Date,
		BuyRate:       money.Null(q.Buying),
		SellRate:      q.Selling,
		EffectiveRate: q.Buying,
		Source:        models.RateSourceTCMB,
	}
	if err := f.store.Upsert(ctx, r); err != nil {
		f.logger.ErrorContext(ctx, "kur kaydedilemedi", "error", err, "currency", q.Currency)
		return nil, err
	}

	stored, err := f.store.OnDate(ctx, q.Currency, q.Date)
	if err != nil {
		return nil, err
	}
	f.logger.InfoContext(ctx, "kur güncellendi",
		"currency", stored.Currency, "date", stored.RateDate.Format("2006-01-02"), "rate", stored.EffectiveRate)
	return stored, nil
}
