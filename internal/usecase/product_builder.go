package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/productscraper/backend/internal/domain"
)

const placeholderImageURL = "https://picsum.photos/400/300?random=%d"

// couponCeiling bounds the numeric suffix of generated coupon codes
const couponCeiling = 15

// RandomSource yields pseudo-random integers in [0, n)
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// productTemplate is the static part of a marketplace record
type productTemplate struct {
	skuPrefix          string
	title              string
	originalPrice      string
	finalPrice         string
	discountPercentage string
	description        string
}

// templateFor selects the record template for a marketplace.
// Unrecognized identifiers get a generic template naming the identifier.
func templateFor(m domain.Marketplace) productTemplate {
	switch m {
	case domain.MarketplaceAmazon:
		return productTemplate{
			skuPrefix:          "AMZ",
			title:              "Echo Dot (5ª geração) | Smart speaker com Alexa | Cor Preta",
			originalPrice:      "R$ 399,00",
			finalPrice:         "R$ 349,00",
			discountPercentage: "12%",
			description:        "Smart speaker com Alexa - Cor Preta",
		}
	case domain.MarketplaceMercadoLivre:
		return productTemplate{
			skuPrefix:          "ML",
			title:              "Smartphone Samsung Galaxy A54 5G 128GB",
			originalPrice:      "R$ 1.799,00",
			finalPrice:         "R$ 1.499,00",
			discountPercentage: "16%",
			description:        "Smartphone Samsung Galaxy A54 5G 128GB",
		}
	case domain.MarketplaceMagalu:
		return productTemplate{
			skuPrefix:          "MGL",
			title:              "Console Sony PlayStation 5 Edição Digital",
			originalPrice:      "R$ 4.499,00",
			finalPrice:         "R$ 3.999,00",
			discountPercentage: "11%",
			description:        "Console Sony PlayStation 5 Edição Digital SSD 825GB",
		}
	case domain.MarketplaceNatura:
		return productTemplate{
			skuPrefix:          "NAT",
			title:              "Kit Natura Homem Essencial Eau de Toilette",
			originalPrice:      "R$ 189,90",
			finalPrice:         "R$ 151,90",
			discountPercentage: "20%",
			description:        "Kit Natura Homem Essencial Eau de Toilette",
		}
	case domain.MarketplaceBoticario:
		return productTemplate{
			skuPrefix:          "BOT",
			title:              "Perfume O Boticário Malbec",
			originalPrice:      "R$ 159,90",
			finalPrice:         "R$ 127,90",
			discountPercentage: "20%",
			description:        "Perfume O Boticário Malbec 100ml",
		}
	case domain.MarketplaceShopee:
		return productTemplate{
			skuPrefix:          "SHP",
			title:              "Fone de Ouvido Bluetooth Sem Fio",
			originalPrice:      "R$ 129,90",
			finalPrice:         "R$ 89,90",
			discountPercentage: "30%",
			description:        "Fone de Ouvido Bluetooth Sem Fio",
		}
	default:
		return productTemplate{
			skuPrefix:          "GEN",
			title:              fmt.Sprintf("Produto do %s", m),
			originalPrice:      "R$ 199,90",
			finalPrice:         "R$ 159,90",
			discountPercentage: "20%",
			description:        fmt.Sprintf("Produto extraído do %s", m),
		}
	}
}

// TemplateBuilder builds product records from static marketplace templates
type TemplateBuilder struct {
	now    func() time.Time
	random RandomSource
}

// BuilderOption customizes a TemplateBuilder
type BuilderOption func(*TemplateBuilder)

// WithClock overrides the time source used for SKUs and image URLs
func WithClock(now func() time.Time) BuilderOption {
	return func(b *TemplateBuilder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRandom overrides the random source used for coupon codes
func WithRandom(r RandomSource) BuilderOption {
	return func(b *TemplateBuilder) {
		if r != nil {
			b.random = r
		}
	}
}

// NewTemplateBuilder creates a builder using wall clock time and the shared random source
func NewTemplateBuilder(opts ...BuilderOption) *TemplateBuilder {
	b := &TemplateBuilder{
		now:    time.Now,
		random: globalRandom{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ domain.ProductBuilder = (*TemplateBuilder)(nil)

// Build stamps the marketplace template with call-time values
func (b *TemplateBuilder) Build(ctx context.Context, marketplace domain.Marketplace, sourceURL string) (domain.ProductRecord, error) {
	if marketplace == "" {
		return domain.ProductRecord{}, fmt.Errorf("%w: marketplace is required", domain.ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return domain.ProductRecord{}, err
	}

	tmpl := templateFor(marketplace)
	stamp := b.now().UnixMilli()

	record := domain.ProductRecord{
		SKU:                fmt.Sprintf("%s-%d", tmpl.skuPrefix, stamp),
		Title:              tmpl.title,
		OriginalPrice:      tmpl.originalPrice,
		FinalPrice:         tmpl.finalPrice,
		DiscountPercentage: tmpl.discountPercentage,
		Description:        tmpl.description,
		ImageURL:           fmt.Sprintf(placeholderImageURL, stamp),
		ProductURL:         sourceURL,
	}
	if record.DiscountPercentage != "" {
		record.Coupon = fmt.Sprintf("CUPOM%d", b.random.IntN(couponCeiling))
	}

	return record, nil
}
