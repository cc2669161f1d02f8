package routes

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/database"
	"github.com/shopgo-app/shopgo/pkg/router"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// bootApp wires the full web router against an in-memory database and
// parsed templates, the same shape the server boots.
func bootApp(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
	))
	database.DB = db

	r := router.New()
	RegisterWeb(r)
	require.NoError(t, view.Boot("../views/templates", r))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func seedCatalog(t *testing.T) models.Product {
	t.Helper()

	price := 89.0
	p := models.Product{
		Name:        "Mechanical Keyboard",
		ImageURL:    "/storage/test/keyboard.jpg",
		Description: "Tenkeyless board with hot-swappable switches.",
		Price:       &price,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	require.NoError(t, database.DB.Create(&models.Category{
		Name:     "Electronics",
		Products: []models.Product{p},
	}).Error)
	return p
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHomePageListsCatalog(t *testing.T) {
	srv := bootApp(t)
	seedCatalog(t)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mechanical Keyboard")
	assert.Contains(t, body, "Electronics")
}

func TestProductPage(t *testing.T) {
	srv := bootApp(t)
	p := seedCatalog(t)

	resp, body := get(t, fmt.Sprintf("%s/products/%d", srv.URL, p.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mechanical Keyboard")
	assert.Contains(t, body, "$89.00")
}

func TestUnknownProductIs404(t *testing.T) {
	srv := bootApp(t)

	resp, _ := get(t, srv.URL+"/products/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRequiresLogin(t *testing.T) {
	srv := bootApp(t)

	resp, _ := get(t, srv.URL+"/cart")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/account/login")
}

func TestAdminRequiresRole(t *testing.T) {
	srv := bootApp(t)

	resp, _ := get(t, srv.URL+"/admin/products")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/account/login")
}

func TestLoginPageRenders(t *testing.T) {
	srv := bootApp(t)

	resp, body := get(t, srv.URL+"/account/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="password"`)
}
