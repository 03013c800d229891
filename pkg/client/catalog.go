package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// CatalogService is the catalog's view of a bookable service, normalized
// from the wire format.
type CatalogService struct {
	ID              string
	VendorID        string
	VendorName      string
	Name            string
	PlanName        string
	CategoryName    string
	DurationMinutes int
	Price           decimal.Decimal
	Description     string
}

type CatalogClient struct {
	httpClient *HttpClient
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// catalogServiceDoc tolerates the catalog's loose numeric encoding: price
// arrives as a JSON number or a string depending on the upstream version.
type catalogServiceDoc struct {
	ID              string          `json:"id"`
	VendorID        string          `json:"vendor_id"`
	VendorName      string          `json:"vendor_name"`
	Name            string          `json:"name"`
	PlanName        string          `json:"plan_name"`
	CategoryName    string          `json:"category_name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           json.RawMessage `json:"price"`
	Description     string          `json:"description"`
}

func (c *CatalogClient) GetService(ctx context.Context, serviceID string) (*CatalogService, error) {
	path := "/api/v1/services/" + url.PathEscape(serviceID)

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	doc, err := decodeCatalogService(resp)
	if err != nil {
		return nil, err
	}

	price, err := decodePrice(doc.Price)
	if err != nil {
		return nil, fmt.Errorf("catalog service %s has invalid price: %w", serviceID, err)
	}

	return &CatalogService{
		ID:              doc.ID,
		VendorID:        doc.VendorID,
		VendorName:      doc.VendorName,
		Name:            doc.Name,
		PlanName:        doc.PlanName,
		CategoryName:    doc.CategoryName,
		DurationMinutes: doc.DurationMinutes,
		Price:           price,
		Description:     doc.Description,
	}, nil
}

// decodeCatalogService accepts both the enveloped form {"data": {...}} and a
// bare service object.
func decodeCatalogService(resp *Response) (*catalogServiceDoc, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	payload := json.RawMessage(resp.Body)
	if err := json.Unmarshal(resp.Body, &wrapper); err == nil && len(wrapper.Data) > 0 {
		payload = wrapper.Data
	}

	var doc catalogServiceDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("could not decode catalog service:\n%+v\n%s", resp.ToString(), err)
	}
	return &doc, nil
}

func decodePrice(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, fmt.Errorf("price missing")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return decimal.NewFromString(asString)
	}
	return decimal.NewFromString(string(raw))
}
