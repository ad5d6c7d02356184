package warehouse

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/testutil"
)

func TestWarehouses(t *testing.T) {
	app := testutil.NewApp()
	RegisterRoutes(app.Group("/api/warehouse"), NewService(testutil.NewDB(t)))

	var w models.Warehouse
	status := testutil.DoJSON(t, app, http.MethodPost, "/api/warehouse", map[string]any{
		"name":         "Main Store",
		"location":     "Lahore",
		"capacity":     5000,
		"currentStock": 1200,
		"manager":      "Imran",
		"email":        "Store@Firn.PK",
		"type":         "storage",
	}, &w)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.WarehouseActive, w.Status)
	assert.Equal(t, "store@firn.pk", w.Email)
	assert.Zero(t, w.DefectiveItems)

	status, raw := testutil.Do(t, app, http.MethodPost, "/api/warehouse", map[string]any{
		"name": "Bad", "location": "x", "capacity": 1, "currentStock": 0, "manager": "y", "type": "garage",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "type must be one of [storage, distribution, manufacturing]", testutil.ErrorMessage(t, raw))

	var updated models.Warehouse
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodPut, "/api/warehouse/"+w.ID,
		map[string]any{"status": "maintenance", "defectiveItems": 3}, &updated))
	assert.Equal(t, models.WarehouseMaintenance, updated.Status)
	assert.Equal(t, 3, updated.DefectiveItems)
	assert.Equal(t, "Main Store", updated.Name)

	status, _ = testutil.Do(t, app, http.MethodPut, "/api/warehouse/"+w.ID, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, status)

	var list []models.Warehouse
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodGet, "/api/warehouse", nil, &list))
	assert.Len(t, list, 1)

	var out map[string]string
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodDelete, "/api/warehouse/"+w.ID, nil, &out))
	assert.Equal(t, "Warehouse deleted successfully", out["message"])
}
