package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLReversal(t *testing.T) {
	r := New()
	r.Get("/products/{id}", "shop.product", func(http.ResponseWriter, *http.Request) {})

	u, err := r.URL("shop.product", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", u)

	_, err = r.URL("shop.product", nil)
	assert.Error(t, err, "missing params must not reverse")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/admin", mw("outer"))
	g.Get("/products", "admin.products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, mw("inner"))

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRoutesSnapshotIsSorted(t *testing.T) {
	r := New()
	h := func(http.ResponseWriter, *http.Request) {}
	r.Post("/b", "b", h)
	r.Get("/a", "a", h)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "/a", infos[0].Path)
	assert.Equal(t, "/b", infos[1].Path)
}
