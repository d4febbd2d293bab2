package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveSKUsSendsCursorParams(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/skus", r.URL.Path)
		gotQuery = map[string]string{
			"_page":  r.URL.Query().Get("_page"),
			"_limit": r.URL.Query().Get("_limit"),
			"q":      r.URL.Query().Get("q"),
			"active": r.URL.Query().Get("active"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.SKUOption{
			{ID: 6, Name: "Widget 6", Code: "W-006"},
			{ID: 7, Name: "Widget 7", Code: "W-007"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	opts, err := c.ListActiveSKUs(context.Background(), "wid", 2, 5)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"_page":  "2",
		"_limit": "5",
		"q":      "wid",
		"active": "true",
	}, gotQuery)
	require.Len(t, opts, 2)
	assert.Equal(t, int64(6), opts[0].ID)
}

func TestListActiveSKUsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListActiveSKUs(context.Background(), "", 1, 5)
	assert.Error(t, err)
}

func TestCreateSKUTakesStoreAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var in models.SKU
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 11

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	sku := &models.SKU{Name: "Gizmo", Code: "G-001", Price: 49.5, Active: true}
	require.NoError(t, c.CreateSKU(context.Background(), sku))
	assert.Equal(t, int64(11), sku.ID)
}

func TestSetActiveWritesBackFullRecord(t *testing.T) {
	var got models.SKU

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/skus/4", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	sku := models.SKU{ID: 4, Name: "Gizmo", Code: "G-001", Price: 10, Active: true}
	updated, err := c.SetActive(context.Background(), sku, false)
	require.NoError(t, err)

	assert.False(t, got.Active)
	assert.Equal(t, "Gizmo", got.Name, "the rest of the record rides along")
	assert.False(t, updated.Active)
}

func TestFilterSKUs(t *testing.T) {
	skus := []models.SKU{
		{ID: 1, Name: "Blue Mug", Code: "MUG-B", Active: true},
		{ID: 2, Name: "Red Mug", Code: "MUG-R", Active: false},
		{ID: 3, Name: "Plate", Code: "PLT-1", Active: true},
	}

	active := FilterSKUs(skus, FilterActive, "")
	require.Len(t, active, 2)

	inactive := FilterSKUs(skus, FilterInactive, "")
	require.Len(t, inactive, 1)
	assert.Equal(t, int64(2), inactive[0].ID)

	byName := FilterSKUs(skus, FilterAll, "mug")
	require.Len(t, byName, 2)

	byCode := FilterSKUs(skus, FilterAll, "plt")
	require.Len(t, byCode, 1)
	assert.Equal(t, int64(3), byCode[0].ID)
}
