package quran

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
)

// DefaultFetchTimeout bounds one GetPage call including its retry.
const DefaultFetchTimeout = 5 * time.Second

// ResilientProvider bounds page fetches with a timeout and retries a failed
// fetch once. Catalog lookups pass straight through.
type ResilientProvider struct {
	quran.Source
	fetchTimeout time.Duration
	retryDelay   time.Duration
}

// NewResilientProvider wraps inner. A zero fetchTimeout uses DefaultFetchTimeout.
func NewResilientProvider(inner quran.Source, fetchTimeout time.Duration) *ResilientProvider {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &ResilientProvider{Source: inner, fetchTimeout: fetchTimeout, retryDelay: 50 * time.Millisecond}
}

func (p *ResilientProvider) GetPage(ctx context.Context, page int) (quran.PageData, error) {
	r := retry.New[quran.PageData](retry.Config{
		MaxAttempts:   2,
		InitialDelay:  p.retryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	t := timeout.New[quran.PageData](timeout.Config{
		DefaultTimeout: p.fetchTimeout,
	})

	return t.Execute(ctx, p.fetchTimeout, func(ctx context.Context) (quran.PageData, error) {
		return r.Do(ctx, func(ctx context.Context) (quran.PageData, error) {
			return p.Source.GetPage(ctx, page)
		})
	})
}
