// Package lookup finds grocery products for the shopping list.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrLookupFailed = errors.New("product lookup failed")
	ErrSuperseded   = errors.New("lookup superseded by a newer query")
)

const (
	DefaultBaseURL = "https://de.openfoodfacts.org"
	MaxResults     = 8
	MinQueryLength = 2

	pageSize = 50
	fields   = "product_name,image_front_small_url,image_url,brands,stores,_id"
)

// TargetStores are the retailers a product must be listed at.
var TargetStores = []string{
	"rewe", "edeka", "kaufland", "aldi", "lidl", "netto", "penny",
	"dm", "rossmann", "mueller", "hit", "globus", "norma",
}

type Product struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Brand  string `json:"brand"`
	Stores string `json:"stores"`
}

// Source answers a single product query.
type Source interface {
	Search(ctx context.Context, query string) ([]Product, error)
}

// Client queries the Open Food Facts search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type offProduct struct {
	ID         string `json:"_id"`
	Name       string `json:"product_name"`
	ImageSmall string `json:"image_front_small_url"`
	Image      string `json:"image_url"`
	Brands     string `json:"brands"`
	Stores     string `json:"stores"`
}

type offResponse struct {
	Products []offProduct `json:"products"`
}

func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", fmt.Sprint(pageSize))
	q.Set("fields", fields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cgi/search.pl?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLookupFailed, err)
	}
	return filterProducts(body.Products), nil
}

// filterProducts keeps named products with an image that are sold at one of
// the target stores, capped at MaxResults.
func filterProducts(in []offProduct) []Product {
	out := []Product{}
	for _, p := range in {
		if len(out) == MaxResults {
			break
		}
		image := p.ImageSmall
		if image == "" {
			image = p.Image
		}
		if p.Name == "" || image == "" || !soldAtTargetStore(p.Stores) {
			continue
		}
		brand, _, _ := strings.Cut(p.Brands, ",")
		out = append(out, Product{
			ID:     p.ID,
			Name:   p.Name,
			Image:  image,
			Brand:  strings.TrimSpace(brand),
			Stores: p.Stores,
		})
	}
	return out
}

func soldAtTargetStore(stores string) bool {
	if stores == "" {
		return false
	}
	stores = strings.ToLower(stores)
	for _, s := range TargetStores {
		if strings.Contains(stores, s) {
			return true
		}
	}
	return false
}
