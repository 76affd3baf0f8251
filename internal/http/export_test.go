package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportStatusesWorkbook(t *testing.T) {
	server := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/save-status", map[string]any{
		"lokalid": "123", "status": "Ja", "address_text": "Storgata 1",
		"kommune": "Oslo", "fylke": "Oslo", "user_id": 1, "user_name": "Kari",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/export/statuses", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, res.Header.Get("Content-Type"), "spreadsheetml")

	wb, err := excelize.OpenReader(res.Body)
	require.NoError(t, err)
	defer wb.Close()

	assert.ElementsMatch(t, []string{"Statuses", "User Activity"}, wb.GetSheetList())

	rows, err := wb.GetRows("Statuses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lokalid", rows[0][0])
	assert.Equal(t, "123", rows[1][0])
	assert.Equal(t, "Storgata 1", rows[1][1])
	assert.Equal(t, "Ja", rows[1][4])

	activity, err := wb.GetRows("User Activity")
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Kari", activity[1][0])
	assert.Equal(t, "1", activity[1][1])
}
