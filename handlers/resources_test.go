package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"minerva_app_go/models"
	"minerva_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResourcesHandler(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, services.SeedLegalResources(database))

	type listResponse struct {
		Data  []models.LegalResource `json:"data"`
		Total int                    `json:"total"`
	}

	t.Run("All categories", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/resources", nil)
		require.NoError(t, GetResourcesHandler(c))

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 11, resp.Total)
	})

	t.Run("One category", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/resources?category=library", nil)
		require.NoError(t, GetResourcesHandler(c))

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Total)
		for _, r := range resp.Data {
			assert.Equal(t, models.ResourceCategoryLibrary, r.Category)
			assert.Positive(t, r.Articles)
		}
	})

	t.Run("Invalid category", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/resources?category=notarios", nil)
		require.NoError(t, GetResourcesHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Categoría inválida")
	})

	t.Run("HTMX fragment", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/resources?category=courts", nil)
		c.Request().Header.Set("HX-Request", "true")
		require.NoError(t, GetResourcesHandler(c))
		assert.Contains(t, rec.Body.String(), "Tribunales")
	})
}
