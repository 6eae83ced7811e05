package transport

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"kasir-backoffice/internal/catalog"
	"kasir-backoffice/internal/codec"
	"kasir-backoffice/internal/domain"
	"kasir-backoffice/internal/middleware"
	"kasir-backoffice/internal/query"
	"kasir-backoffice/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateProductRequest is the JSON body for photo-less updates.
type UpdateProductRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	Price      string `json:"price" validate:"required"`
	Stock      int    `json:"stock" validate:"gte=0"`
	Discount   string `json:"discount"`
	CostPrice  string `json:"cost_price"`
}

// UpdateStockRequest is the JSON body for the stock patch endpoint.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	store    *catalog.Store
	renderer report.Renderer
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(store *catalog.Store, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:    store,
		renderer: report.NewTextRenderer(),
		logger:   logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.AddProduct)
		r.Post("/reload", h.Reload)
		r.Get("/export", h.ExportData)
		r.Post("/import", h.ImportData)
		r.Put("/{id}", h.UpdateProduct)
		r.Patch("/{id}/stock", h.UpdateStock)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/api/stock", func(r chi.Router) {
		r.Get("/export", h.ExportStock)
		r.Post("/import", h.ImportStock)
	})

	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/report", h.Report)
	r.Get("/api/report/export", h.ExportReport)
	r.Get("/api/summary", h.Summary)
	r.Get("/api/audit", h.AuditLog)
}

// ListProducts runs the snapshot through the filter, sort and pagination
// pipeline. All parameters are optional; page defaults to 1.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		page = parsed
	}

	params := query.Params{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		SortBy:     query.SortKey(q.Get("sort")),
		Order:      query.SortOrder(q.Get("order")),
		Page:       page,
	}

	result := query.Apply(h.store.Snapshot(), params)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// AddProduct handles the multipart creation form. The photo part is optional.
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	draft, err := h.parseProductForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.store.Add(r.Context(), draft)
	if err != nil {
		h.respondStoreError(w, err, "failed to add product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateProduct accepts multipart form data when a new photo is uploaded and
// plain JSON otherwise, mirroring the two shapes the remote service expects.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch domain.Patch
	if isMultipart(r) {
		draft, err := h.parseProductForm(r)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch = domain.Patch(draft)
	} else {
		var req UpdateProductRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
				middleware.RespondWithValidationErrors(w, validationErrors)
				return
			}
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		patch = domain.Patch{
			Name:       req.Name,
			CategoryID: req.CategoryID,
			Price:      parseAmount(req.Price),
			Stock:      req.Stock,
			Discount:   parseAmount(req.Discount),
			CostPrice:  parseAmount(req.CostPrice),
		}
	}

	if err := h.store.Update(r.Context(), id, patch); err != nil {
		h.respondStoreError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateStock applies the optimistic stock change. The response carries the
// locally updated product; the remote write may still be in flight.
func (h *CatalogHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.store.SetStock(r.Context(), id, req.Stock)
	if err != nil {
		h.respondStoreError(w, err, "failed to update stock")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product after the remote confirms the delete.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Remove(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reload replaces the collection with a fresh remote fetch.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		h.respondStoreError(w, err, "failed to reload catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"count":  len(h.store.Snapshot()),
	})
}

// ExportData streams the full catalog in the data file layout.
func (h *CatalogHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	respondCSV(w, codec.DataFileName, codec.ExportData(h.store.Snapshot()))
}

// ImportData replaces the whole collection with the uploaded rows. Imported
// products get fresh local identifiers and are not pushed to the remote.
func (h *CatalogHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	content, err := readUpload(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := codec.ImportData(content)
	h.store.ImportReplace(r.Context(), products)

	h.logger.Info("Catalog replaced from import", zap.Int("count", len(products)))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "imported",
		"count":  len(products),
	})
}

// ExportStock streams the stock sheet layout.
func (h *CatalogHandler) ExportStock(w http.ResponseWriter, r *http.Request) {
	respondCSV(w, codec.StockFileName, codec.ExportStock(h.store.Snapshot()))
}

// ImportStock replaces the collection from a stock sheet upload.
func (h *CatalogHandler) ImportStock(w http.ResponseWriter, r *http.Request) {
	content, err := readUpload(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := codec.ImportStock(content)
	h.store.ImportReplace(r.Context(), products)

	h.logger.Info("Stock sheet imported", zap.Int("count", len(products)))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "imported",
		"count":  len(products),
	})
}

// ListCategories returns the cached category list.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.store.Categories())
}

// Report renders per-product rows with resolved category labels and
// preformatted rupiah amounts.
func (h *CatalogHandler) Report(w http.ResponseWriter, r *http.Request) {
	rows := report.Rows(h.store.Snapshot(), h.store.Categories())
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// ExportReport renders the printable inventory listing as a download.
func (h *CatalogHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	rows := report.Rows(snapshot, h.store.Categories())

	document, err := h.renderer.Render(rows, report.Summarize(snapshot))
	if err != nil {
		h.logger.Error("Report rendering failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan_barang.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

// Summary returns the dashboard counters.
func (h *CatalogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, report.Summarize(h.store.Snapshot()))
}

// AuditLog returns the recorded stock and deletion entries in order.
func (h *CatalogHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.store.AuditEntries())
}

// respondStoreError maps store errors onto HTTP statuses. Validation problems
// are the caller's fault, a missing product is 404, and anything the remote
// rejected surfaces as a bad gateway with the remote's detail message.
func (h *CatalogHandler) respondStoreError(w http.ResponseWriter, err error, fallback string) {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		validationErrors := make([]middleware.ValidationError, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			validationErrors = append(validationErrors, middleware.ValidationError{
				Field:   f,
				Message: "This field is required",
			})
		}
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	if errors.Is(err, catalog.ErrNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if errors.Is(err, catalog.ErrFetchFailed) ||
		errors.Is(err, catalog.ErrCreateFailed) ||
		errors.Is(err, catalog.ErrUpdateFailed) ||
		errors.Is(err, catalog.ErrDeleteFailed) {
		middleware.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logger.Error("Unexpected store error", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
}

// parseProductForm reads the multipart product form used by add and by
// photo-carrying updates. Field validation is left to the store.
func (h *CatalogHandler) parseProductForm(r *http.Request) (domain.Draft, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return domain.Draft{}, errors.New("invalid multipart form")
	}

	stock, _ := strconv.Atoi(r.FormValue("stock"))

	draft := domain.Draft{
		Name:       strings.TrimSpace(r.FormValue("name")),
		CategoryID: strings.TrimSpace(r.FormValue("category_id")),
		Price:      parseAmount(r.FormValue("price")),
		Stock:      stock,
		Discount:   parseAmount(r.FormValue("discount")),
		CostPrice:  parseAmount(r.FormValue("cost_price")),
	}

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		photo, err := io.ReadAll(file)
		if err != nil {
			return domain.Draft{}, errors.New("failed to read photo upload")
		}
		draft.Photo = photo
		draft.PhotoName = header.Filename
	}

	return draft, nil
}

// readUpload returns CSV content from either a multipart "file" part or a
// raw request body.
func readUpload(r *http.Request) (string, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			return "", errors.New("invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("missing file upload")
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("failed to read file upload")
		}
		return string(content), nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	return string(content), nil
}

func respondCSV(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
