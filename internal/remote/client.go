// Package remote implements the catalog service client. The wire format is
// the one the back-office service already speaks: Indonesian field names,
// identifiers that may arrive as numbers or strings, and list responses that
// are either a bare array or wrapped in a data envelope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kasir-backoffice/internal/domain"

	"github.com/shopspring/decimal"
)

// Client talks to the remote catalog service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog service client. timeout bounds every request;
// there is no retry policy.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// flexID accepts JSON identifiers that arrive as either strings or numbers
// and normalizes them to strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier is neither string nor number: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

type productPayload struct {
	ID          flexID          `json:"ProdukID"`
	Name        string          `json:"NamaProduk"`
	CategoryID  flexID          `json:"kategoriID"`
	Price       decimal.Decimal `json:"Harga"`
	Stock       int             `json:"Stok"`
	Discount    decimal.Decimal `json:"Diskon"`
	CostPrice   decimal.Decimal `json:"HargaModal"`
	PhotoRef    string          `json:"Foto"`
	LastUpdated string          `json:"lastUpdated"`
	CreatedAt   string          `json:"createdAt"`
}

type categoryPayload struct {
	ID   flexID `json:"kategoriID"`
	Name string `json:"namaKategori"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:          string(p.ID),
		Name:        p.Name,
		CategoryID:  string(p.CategoryID),
		Price:       p.Price,
		Stock:       p.Stock,
		Discount:    p.Discount,
		CostPrice:   p.CostPrice,
		PhotoRef:    p.PhotoRef,
		LastUpdated: parseTimestamp(p.LastUpdated, p.CreatedAt),
	}
}

// parseTimestamp picks the first timestamp that parses; products the service
// never stamped keep the zero time.
func parseTimestamp(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, c); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// ListProducts fetches the full product listing.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, "/produk/")
	if err != nil {
		return nil, err
	}

	var payloads []productPayload
	if err := decodeList(body, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode product listing: %w", err)
	}

	products := make([]domain.Product, len(payloads))
	for i, p := range payloads {
		products[i] = p.toDomain()
	}
	return products, nil
}

// ListCategories fetches the category listing.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.get(ctx, "/kategori/")
	if err != nil {
		return nil, err
	}

	var payloads []categoryPayload
	if err := decodeList(body, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode category listing: %w", err)
	}

	categories := make([]domain.Category, len(payloads))
	for i, p := range payloads {
		categories[i] = domain.Category{ID: string(p.ID), Name: p.Name}
	}
	return categories, nil
}

// CreateProduct sends a draft as a multipart payload (the photo rides along
// as a file part when present) and returns the confirmed product with its
// remote-assigned ID and canonical fields.
func (c *Client) CreateProduct(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	body, contentType, err := multipartBody(
		draft.Name, draft.CategoryID, draft.Price, draft.Stock,
		draft.Discount, draft.CostPrice, draft.Photo, draft.PhotoName,
	)
	if err != nil {
		return domain.Product{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/produk/", body)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to build create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := c.do(req)
	if err != nil {
		return domain.Product{}, err
	}

	var payload productPayload
	if err := decodeObject(respBody, &payload); err != nil {
		return domain.Product{}, fmt.Errorf("failed to decode created product: %w", err)
	}
	return payload.toDomain(), nil
}

// UpdateProduct edits a product. A new photo payload forces a multipart
// request; without one the patch goes out as plain JSON.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch domain.Patch) error {
	var (
		body        io.Reader
		contentType string
		path        = "/produk/" + id
	)

	if len(patch.Photo) > 0 {
		buf, ct, err := multipartBody(
			patch.Name, patch.CategoryID, patch.Price, patch.Stock,
			patch.Discount, patch.CostPrice, patch.Photo, patch.PhotoName,
		)
		if err != nil {
			return err
		}
		body, contentType = buf, ct
		path += "/"
	} else {
		payload, err := json.Marshal(map[string]interface{}{
			"NamaProduk": patch.Name,
			"kategoriID": patch.CategoryID,
			"Harga":      patch.Price,
			"Stok":       patch.Stock,
			"Diskon":     patch.Discount,
			"HargaModal": patch.CostPrice,
		})
		if err != nil {
			return fmt.Errorf("failed to encode update payload: %w", err)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build update request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	_, err = c.do(req)
	return err
}

// UpdateStock pushes a bare stock value for a product.
func (c *Client) UpdateStock(ctx context.Context, id string, stock int) error {
	payload, err := json.Marshal(map[string]interface{}{
		"Stok":        stock,
		"lastUpdated": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to encode stock payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/produk/"+id, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build stock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

// DeleteProduct removes a product from the remote store.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/produk/"+id, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	_, err = c.do(req)
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req)
}

// do executes the request and turns non-2xx responses into errors carrying
// the service's detail message when one is present.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote catalog service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote returned %d: %s", resp.StatusCode, errorDetail(body))
	}
	return body, nil
}

// errorDetail extracts a human-readable message from an error body, falling
// back to the raw text.
func errorDetail(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return "no detail"
	}
	return detail
}

// decodeList accepts either a bare JSON array or a {"data": [...]} envelope.
func decodeList(body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

// decodeObject accepts either a bare JSON object or a {"data": {...}} envelope.
func decodeObject(body []byte, out interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(bytes.TrimSpace(body), out)
}

func multipartBody(
	name, categoryID string,
	price decimal.Decimal, stock int,
	discount, costPrice decimal.Decimal,
	photo []byte, photoName string,
) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"NamaProduk": name,
		"kategoriID": categoryID,
		"Harga":      price.String(),
		"Stok":       strconv.Itoa(stock),
		"Diskon":     discount.String(),
		"HargaModal": costPrice.String(),
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if len(photo) > 0 {
		if photoName == "" {
			photoName = "photo"
		}
		part, err := w.CreateFormFile("Foto", photoName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create photo part: %w", err)
		}
		if _, err := part.Write(photo); err != nil {
			return nil, "", fmt.Errorf("failed to write photo payload: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
