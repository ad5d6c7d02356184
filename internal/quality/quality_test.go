package quality

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/testutil"
)

func record(day string, good, bad int) map[string]any {
	return map[string]any{
		"productId":         "BREAD",
		"productName":       "White Bread",
		"batchNumber":       "B-7",
		"totalQuantity":     100,
		"goodQuantity":      good,
		"defectiveQuantity": bad,
		"inspectionDate":    day,
		"inspector":         "Sana",
	}
}

func TestQualityRecords(t *testing.T) {
	app := testutil.NewApp()
	RegisterRoutes(app.Group("/api/quality"), NewService(testutil.NewDB(t)))

	// counts need not add up to the total
	var first models.QualityRecord
	require.Equal(t, http.StatusCreated, testutil.DoJSON(t, app, http.MethodPost, "/api/quality", record("2025-02-01", 90, 30), &first))
	require.Equal(t, http.StatusCreated, testutil.DoJSON(t, app, http.MethodPost, "/api/quality", record("2025-02-03", 95, 5), nil))

	var list []models.QualityRecord
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodGet, "/api/quality", nil, &list))
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].InspectionDate.Day(), "latest inspection first")

	bad := record("2025-02-01", -1, 0)
	delete(bad, "inspector")
	status, raw := testutil.Do(t, app, http.MethodPost, "/api/quality", bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, testutil.ErrorMessage(t, raw), "inspector is required")

	var updated models.QualityRecord
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodPut, "/api/quality/"+first.ID,
		map[string]any{"defectType": "burnt"}, &updated))
	assert.Equal(t, "burnt", updated.DefectType)
	assert.Equal(t, 90, updated.GoodQuantity)

	var out map[string]string
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, app, http.MethodDelete, "/api/quality/"+first.ID, nil, &out))
	assert.Equal(t, "Quality record deleted successfully", out["message"])

	status, raw = testutil.Do(t, app, http.MethodDelete, "/api/quality/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Quality record not found", testutil.ErrorMessage(t, raw))
}
