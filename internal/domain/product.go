package domain

// ProductRecord represents normalized product information for a marketplace page
type ProductRecord struct {
	SKU                string `json:"sku"`
	Title              string `json:"title"`
	OriginalPrice      string `json:"originalPrice"`
	FinalPrice         string `json:"finalPrice"`
	DiscountPercentage string `json:"discountPercentage"`
	Description        string `json:"description"`
	ImageURL           string `json:"imageUrl"`
	ProductURL         string `json:"productUrl"`
	Coupon             string `json:"coupon"`
}

// BatchItemResult is the outcome for one URL of a batch request
type BatchItemResult struct {
	URL         string         `json:"url"`
	Marketplace Marketplace    `json:"marketplaceId"`
	Success     bool           `json:"success"`
	Data        *ProductRecord `json:"data,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// BatchRequest represents a batch scraping request
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// DetectRequest represents a site detection request
type DetectRequest struct {
	URL string `json:"url"`
}

// ScrapeRequest represents a single product scraping request
type ScrapeRequest struct {
	URL  string `json:"url"`
	Site string `json:"site"`
}
