// Package fetcher retrieves the current upstream bill and meeting sets.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/zap"
)

const defaultPageSize = 25

// Page is one bounded response from the upstream. Total is the size of the
// whole result set as reported upstream, or 0 when it was not reported.
type Page struct {
	Records []models.Bill
	Total   int
}

type PageSource interface {
	FetchPage(ctx context.Context, limit, offset int) (*Page, error)
}

type Fetcher struct {
	source       PageSource
	log          *zap.Logger
	pageSize     int
	pageInterval time.Duration

	sleep func(context.Context, time.Duration) error
}

func NewFetcher(cfg *config.Config, log *zap.Logger, client *AlisonClient) *Fetcher {
	return New(client, log, cfg.Upstream.PageSize, cfg.Upstream.PageInterval)
}

func New(source PageSource, log *zap.Logger, pageSize int, pageInterval time.Duration) *Fetcher {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Fetcher{source, log, pageSize, pageInterval, Sleep}
}

// FetchAll pages through the upstream until a short page is returned or the
// reported total is reached.
func (f *Fetcher) FetchAll(ctx context.Context) (models.BillSnapshot, error) {
	bills := make(models.BillSnapshot)

	offset, requests := 0, 0
	for {
		page, err := f.source.FetchPage(ctx, f.pageSize, offset)
		requests++
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}

		for _, bill := range page.Records {
			if bill.Number == "" {
				f.log.Sugar().Warnw("Skipping upstream record without a bill number", "offset", offset)
				continue
			}
			bills[bill.Number] = bill
		}

		if len(page.Records) < f.pageSize {
			break
		}
		offset += f.pageSize
		if page.Total > 0 && offset >= page.Total {
			break
		}

		if err := f.sleep(ctx, f.pageInterval); err != nil {
			return nil, err
		}
	}

	f.log.Sugar().Debugw("Fetched bills", "bills", len(bills), "requests", requests)
	return bills, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
