package domain

import (
	"context"
	"time"
)

// ProductBuilder constructs a normalized product record for a marketplace page
type ProductBuilder interface {
	Build(ctx context.Context, marketplace Marketplace, sourceURL string) (ProductRecord, error)
}

// Classifier maps a URL to a marketplace
type Classifier interface {
	Classify(url string) Classification
}

// Delayer suspends the caller for a duration or until ctx ends
type Delayer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// RateLimitStore decides whether a client key may perform another request
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}
