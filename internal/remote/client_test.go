package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kasir-backoffice/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestListProductsBareArray(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produk/", r.URL.Path)
		w.Write([]byte(`[
			{"ProdukID": 7, "NamaProduk": "Kopi", "kategoriID": 2, "Harga": 12000, "Stok": 5, "Diskon": 10, "HargaModal": 7000, "lastUpdated": "2025-03-01T10:00:00Z"},
			{"ProdukID": "8", "NamaProduk": "Teh", "kategoriID": "3", "Harga": "8000", "Stok": 2}
		]`))
	})
	defer srv.Close()

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	// Numeric and string identifiers both normalize to strings.
	assert.Equal(t, "7", products[0].ID)
	assert.Equal(t, "2", products[0].CategoryID)
	assert.Equal(t, "8", products[1].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(12000)))
	assert.True(t, products[1].Price.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, 2025, products[0].LastUpdated.Year())
	assert.True(t, products[1].LastUpdated.IsZero())
}

func TestListProductsEnvelope(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"ProdukID": 1, "NamaProduk": "Kopi", "Harga": 100, "Stok": 1}]}`))
	})
	defer srv.Close()

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kopi", products[0].Name)
}

func TestListCategories(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kategori/", r.URL.Path)
		w.Write([]byte(`{"data": [{"kategoriID": 2, "namaKategori": "Minuman"}]}`))
	})
	defer srv.Close()

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "2", categories[0].ID)
	assert.Equal(t, "Minuman", categories[0].Name)
}

func TestCreateProductSendsMultipart(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Kopi Susu", r.FormValue("NamaProduk"))
		assert.Equal(t, "2", r.FormValue("kategoriID"))
		assert.Equal(t, "12000", r.FormValue("Harga"))
		assert.Equal(t, "25", r.FormValue("Stok"))

		_, header, err := r.FormFile("Foto")
		require.NoError(t, err)
		assert.Equal(t, "kopi.jpg", header.Filename)

		w.Write([]byte(`{"ProdukID": 42, "NamaProduk": "Kopi Susu", "kategoriID": 2, "Harga": 12000, "Stok": 25}`))
	})
	defer srv.Close()

	created, err := client.CreateProduct(context.Background(), domain.Draft{
		Name:       "Kopi Susu",
		CategoryID: "2",
		Price:      decimal.NewFromInt(12000),
		Stock:      25,
		Photo:      []byte("fake image bytes"),
		PhotoName:  "kopi.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
}

func TestUpdateProductJSONWithoutPhoto(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/produk/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	err := client.UpdateProduct(context.Background(), "42", domain.Patch{Name: "Kopi"})
	assert.NoError(t, err)
}

func TestUpdateProductMultipartWithPhoto(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produk/42/", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	err := client.UpdateProduct(context.Background(), "42", domain.Patch{
		Name:  "Kopi",
		Photo: []byte("new image"),
	})
	assert.NoError(t, err)
}

func TestRemoteErrorCarriesDetail(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "kategori tidak ditemukan"}`))
	})
	defer srv.Close()

	err := client.DeleteProduct(context.Background(), "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kategori tidak ditemukan")
	assert.Contains(t, err.Error(), "500")
}

func TestUpdateStockPayload(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/produk/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	assert.NoError(t, client.UpdateStock(context.Background(), "7", 9))
}
