package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/productscraper/backend/internal/domain"
)

// fixedRandom always returns the same value, clamped to the requested range
type fixedRandom struct {
	value int
	calls []int
}

func (r *fixedRandom) IntN(n int) int {
	r.calls = append(r.calls, n)
	if r.value >= n {
		return n - 1
	}
	return r.value
}

var fixedTime = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func newFixedBuilder(random *fixedRandom) *TemplateBuilder {
	return NewTemplateBuilder(
		WithClock(func() time.Time { return fixedTime }),
		WithRandom(random),
	)
}

func TestTemplateBuilder_Build(t *testing.T) {
	ctx := context.Background()
	stamp := fixedTime.UnixMilli()

	tests := []struct {
		name        string
		marketplace domain.Marketplace
		wantPrefix  string
		wantTitle   string
		wantFinal   string
		wantDisc    string
	}{
		{"amazon", domain.MarketplaceAmazon, "AMZ", "Echo Dot (5ª geração) | Smart speaker com Alexa | Cor Preta", "R$ 349,00", "12%"},
		{"mercadolivre", domain.MarketplaceMercadoLivre, "ML", "Smartphone Samsung Galaxy A54 5G 128GB", "R$ 1.499,00", "16%"},
		{"magalu", domain.MarketplaceMagalu, "MGL", "Console Sony PlayStation 5 Edição Digital", "R$ 3.999,00", "11%"},
		{"natura", domain.MarketplaceNatura, "NAT", "Kit Natura Homem Essencial Eau de Toilette", "R$ 151,90", "20%"},
		{"boticario", domain.MarketplaceBoticario, "BOT", "Perfume O Boticário Malbec", "R$ 127,90", "20%"},
		{"shopee", domain.MarketplaceShopee, "SHP", "Fone de Ouvido Bluetooth Sem Fio", "R$ 89,90", "30%"},
		{"generic fallback", domain.MarketplaceGeneric, "GEN", "Produto do generic", "R$ 159,90", "20%"},
		{"unrecognized id", "kabum", "GEN", "Produto do kabum", "R$ 159,90", "20%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := &fixedRandom{value: 7}
			builder := newFixedBuilder(random)
			url := "https://example.com/" + tt.name

			record, err := builder.Build(ctx, tt.marketplace, url)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			wantSKU := tt.wantPrefix + "-" + strconv.FormatInt(stamp, 10)
			if record.SKU != wantSKU {
				t.Errorf("SKU = %s, want %s", record.SKU, wantSKU)
			}
			if record.Title != tt.wantTitle {
				t.Errorf("Title = %s, want %s", record.Title, tt.wantTitle)
			}
			if record.FinalPrice != tt.wantFinal {
				t.Errorf("FinalPrice = %s, want %s", record.FinalPrice, tt.wantFinal)
			}
			if record.DiscountPercentage != tt.wantDisc {
				t.Errorf("DiscountPercentage = %s, want %s", record.DiscountPercentage, tt.wantDisc)
			}
			if record.ProductURL != url {
				t.Errorf("ProductURL = %s, want %s", record.ProductURL, url)
			}
			if record.ImageURL != "https://picsum.photos/400/300?random="+strconv.FormatInt(stamp, 10) {
				t.Errorf("ImageURL = %s", record.ImageURL)
			}
			if record.Coupon != "CUPOM7" {
				t.Errorf("Coupon = %s, want CUPOM7", record.Coupon)
			}
			if record.OriginalPrice == "" || record.Description == "" {
				t.Error("template fields should not be empty")
			}
		})
	}
}

func TestTemplateBuilder_CouponRange(t *testing.T) {
	random := &fixedRandom{value: 100}
	builder := newFixedBuilder(random)

	record, err := builder.Build(context.Background(), domain.MarketplaceShopee, "https://shopee.com.br/x")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(random.calls) != 1 || random.calls[0] != 15 {
		t.Errorf("random calls = %v, want single IntN(15)", random.calls)
	}
	if record.Coupon != "CUPOM14" {
		t.Errorf("Coupon = %s, want CUPOM14", record.Coupon)
	}
}

func TestTemplateBuilder_GenericDescriptionNamesSite(t *testing.T) {
	builder := newFixedBuilder(&fixedRandom{})

	record, _ := builder.Build(context.Background(), "americanas", "https://americanas.com.br/p")
	if !strings.Contains(record.Description, "americanas") {
		t.Errorf("Description = %s, want it to name the site", record.Description)
	}
}

func TestTemplateBuilder_Errors(t *testing.T) {
	builder := newFixedBuilder(&fixedRandom{})

	t.Run("empty marketplace", func(t *testing.T) {
		_, err := builder.Build(context.Background(), "", "https://amazon.com")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := builder.Build(ctx, domain.MarketplaceAmazon, "https://amazon.com")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestNewTemplateBuilder_Defaults(t *testing.T) {
	builder := NewTemplateBuilder(WithClock(nil), WithRandom(nil))
	if builder.now == nil || builder.random == nil {
		t.Fatal("nil options should keep defaults")
	}

	record, err := builder.Build(context.Background(), domain.MarketplaceAmazon, "https://amazon.com")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(record.Coupon, "CUPOM") {
		t.Errorf("Coupon = %s, want CUPOM prefix", record.Coupon)
	}
}
