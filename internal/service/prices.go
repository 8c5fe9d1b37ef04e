package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"giraffe/internal/database"
	"giraffe/internal/models"
)

// PriceService keeps the price cache warm: on demand for the refresh
// endpoint and periodically in the background.
type PriceService struct {
	repo   *database.Repo
	quotes QuoteProvider
	log    *logrus.Logger
}

func NewPriceService(repo *database.Repo, quotes QuoteProvider, log *logrus.Logger) *PriceService {
	return &PriceService{repo: repo, quotes: quotes, log: log}
}

// RefreshAll re-fetches every held symbol sequentially, skipping symbols
// whose fetch fails, and returns the cache rows that were refreshed.
func (s *PriceService) RefreshAll(ctx context.Context) ([]models.StockPrice, error) {
	symbols, err := s.repo.HeldSymbols(ctx)
	if err != nil {
		return nil, err
	}

	refreshed := []string{}
	for _, symbol := range symbols {
		q, err := s.quotes.Quote(ctx, symbol)
		if err != nil {
			s.log.Warnf("price fetch failed for %s: %v", symbol, err)
			continue
		}
		if err := s.repo.UpsertPrice(ctx, symbol, q.Price, q.Name); err != nil {
			s.log.Warnf("price upsert failed for %s: %v", symbol, err)
			continue
		}
		refreshed = append(refreshed, symbol)
	}

	if len(refreshed) == 0 {
		return []models.StockPrice{}, nil
	}
	return s.repo.ListPrices(ctx, refreshed)
}

// FetchOne fetches and caches a single symbol, returning the joined cache
// row.
func (s *PriceService) FetchOne(ctx context.Context, symbol string) (models.StockPrice, error) {
	q, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		return models.StockPrice{}, err
	}
	if err := s.repo.UpsertPrice(ctx, symbol, q.Price, q.Name); err != nil {
		return models.StockPrice{}, err
	}
	return s.repo.GetPrice(ctx, symbol)
}

// Start launches the periodic refresher. It runs until ctx is done. A
// non-positive interval disables the refresher.
func (s *PriceService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info("price refresher disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("price refresher stopping")
				return
			case <-ticker.C:
				if _, err := s.RefreshAll(ctx); err != nil {
					s.log.Warnf("periodic price refresh failed: %v", err)
				}
			}
		}
	}()
}
