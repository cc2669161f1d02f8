package bind

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productInput struct {
	Name        string   `form:"name" validate:"required,min=2"`
	Description string   `form:"description" validate:"required,between=10,1000"`
	Price       *float64 `form:"price" validate:"nullable,between=1,1000"`
	CategoryIDs []uint   `form:"category_ids"`
}

func TestFormBindsFields(t *testing.T) {
	values := url.Values{
		"name":         {"Keyboard"},
		"description":  {"Tenkeyless board with hot-swappable switches."},
		"price":        {"89.5"},
		"category_ids": {"1", "3"},
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in productInput
	errs, err := Form(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)

	assert.Equal(t, "Keyboard", in.Name)
	require.NotNil(t, in.Price)
	assert.InDelta(t, 89.5, *in.Price, 0.001)
	assert.Equal(t, []uint{1, 3}, in.CategoryIDs)
}

func TestFormEmptyPointerStaysNil(t *testing.T) {
	values := url.Values{
		"name":        {"Keyboard"},
		"description": {"Tenkeyless board with hot-swappable switches."},
		"price":       {""},
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in productInput
	errs, err := Form(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Nil(t, in.Price)
}

func TestFormValidationErrors(t *testing.T) {
	values := url.Values{
		"name":        {"K"},
		"description": {"too short"},
		"price":       {"5000"},
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in productInput
	errs, err := Form(req, &in)
	require.NoError(t, err)

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "price")
}
