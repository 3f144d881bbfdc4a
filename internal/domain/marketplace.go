package domain

// Marketplace identifies a supported e-commerce site
type Marketplace string

const (
	MarketplaceAmazon       Marketplace = "amazon"
	MarketplaceMercadoLivre Marketplace = "mercadolivre"
	MarketplaceMagalu       Marketplace = "magalu"
	MarketplaceNatura       Marketplace = "natura"
	MarketplaceBoticario    Marketplace = "boticario"
	MarketplaceShopee       Marketplace = "shopee"

	// MarketplaceGeneric is the batch path fallback for unmatched URLs
	MarketplaceGeneric Marketplace = "generic"
	// MarketplaceUnknown is the detection path fallback for unmatched URLs
	MarketplaceUnknown Marketplace = "unknown"
)

// String returns the wire identifier
func (m Marketplace) String() string {
	return string(m)
}

// Confidence is the qualitative certainty of a classification
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// URLPattern pairs a marketplace with the literal token that identifies its URLs.
// Tables of patterns are evaluated in order and the first match wins.
type URLPattern struct {
	Marketplace Marketplace
	Token       string
}

// Classification is the outcome of matching a URL against the pattern table
type Classification struct {
	Marketplace Marketplace `json:"site"`
	Confidence  Confidence  `json:"confidence"`
}

// Matched reports whether a pattern produced this classification
func (c Classification) Matched() bool {
	return c.Confidence == ConfidenceHigh
}

// DefaultURLPatterns returns a fresh copy of the built-in detection table.
// Narrower tokens must stay ahead of broader ones; the order is part of the contract.
func DefaultURLPatterns() []URLPattern {
	return []URLPattern{
		{Marketplace: MarketplaceAmazon, Token: "amazon"},
		{Marketplace: MarketplaceMercadoLivre, Token: "mercadolivre"},
		{Marketplace: MarketplaceMagalu, Token: "magazinevoce"},
		{Marketplace: MarketplaceNatura, Token: "minhaloja.natura"},
		{Marketplace: MarketplaceBoticario, Token: "boticario"},
		{Marketplace: MarketplaceShopee, Token: "shopee"},
	}
}

// SiteInfo describes a supported marketplace for listing clients
type SiteInfo struct {
	ID          Marketplace `json:"id"`
	Name        string      `json:"name"`
	Example     string      `json:"example"`
	Spreadsheet string      `json:"spreadsheet"`
}

// SupportedSites returns the static marketplace metadata table
func SupportedSites() []SiteInfo {
	return []SiteInfo{
		{
			ID:          MarketplaceAmazon,
			Name:        "Amazon",
			Example:     "https://www.amazon.com.br/dp/B09B8VGCR8",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1Qzc09H13Vwsq-6kqFwnXPHCHLTVlYgFyWthx8_0wSPk/",
		},
		{
			ID:          MarketplaceMercadoLivre,
			Name:        "Mercado Livre",
			Example:     "https://www.mercadolivre.com.br/produto",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1bAKHGxyvEEjYMja4-PAbtrNbeRmvOSnnZLotWLIPda4/",
		},
		{
			ID:          MarketplaceMagalu,
			Name:        "Magazine Luiza",
			Example:     "https://www.magazinevoce.com.br/magazinesouzza21/p/",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1odYdZIdiK8jGvDDcXRPBrU6XOuDQ_dGnFHbrwHaJ-Ds/",
		},
		{
			ID:          MarketplaceNatura,
			Name:        "Natura",
			Example:     "https://www.minhaloja.natura.com/consultoria/ricardosouzza/p/",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1vB6XHmfh0B0_YdfMQ5JrrbHetpdvj3O4CFMta4MeJ9E/",
		},
		{
			ID:          MarketplaceBoticario,
			Name:        "O Boticário",
			Example:     "https://minhaloja.boticario.com.br/loja-ricardoconceicaosouza-22809826/produto/",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1j0QyUHjiFJhBCGb80vVyM8-qT0vVUSQwfyWTup015QQ/",
		},
		{
			ID:          MarketplaceShopee,
			Name:        "Shopee",
			Example:     "https://shopee.com.br/produto",
			Spreadsheet: "https://docs.google.com/spreadsheets/d/1YnJRqOC3GXnd3Flod0FErqYKYAK609X6wKY4aOLhtRQ/",
		},
	}
}
