package usecase

import (
	"strings"

	"github.com/productscraper/backend/internal/domain"
)

// SiteClassifier maps URLs to marketplaces using an ordered substring table
type SiteClassifier struct {
	patterns []domain.URLPattern
}

// NewSiteClassifier creates a classifier over a copy of the given table.
// A nil or empty table falls back to domain.DefaultURLPatterns.
func NewSiteClassifier(patterns []domain.URLPattern) *SiteClassifier {
	if len(patterns) == 0 {
		patterns = domain.DefaultURLPatterns()
	}
	owned := make([]domain.URLPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Token == "" {
			continue
		}
		owned = append(owned, p)
	}
	return &SiteClassifier{patterns: owned}
}

// Classify returns the first marketplace whose token appears in url.
// Unmatched input yields unknown with low confidence.
func (c *SiteClassifier) Classify(url string) domain.Classification {
	for _, p := range c.patterns {
		if strings.Contains(url, p.Token) {
			return domain.Classification{
				Marketplace: p.Marketplace,
				Confidence:  domain.ConfidenceHigh,
			}
		}
	}
	return domain.Classification{
		Marketplace: domain.MarketplaceUnknown,
		Confidence:  domain.ConfidenceLow,
	}
}

// Patterns returns a copy of the table in priority order
func (c *SiteClassifier) Patterns() []domain.URLPattern {
	out := make([]domain.URLPattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}
