package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditnote/backend/internal/interfaces/http/dto"
)

func uploadFile(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newLotRouter() *gin.Engine {
	router := gin.New()
	NewLotHandler(nil).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestLotHandler_ParseCSV(t *testing.T) {
	router := newLotRouter()

	w := uploadFile(t, router, "lots.csv", "Lot Number,Note\nL1,damaged\nl2,\nL1,dup\n")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, []interface{}{"L1", "L2"}, data["lots"])
}

func TestLotHandler_ParsePlainText(t *testing.T) {
	router := newLotRouter()

	w := uploadFile(t, router, "lots.txt", "L1\nL2, L3\n")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestLotHandler_ParseEmptyFile(t *testing.T) {
	router := newLotRouter()

	w := uploadFile(t, router, "lots.txt", "\n\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNoLots)
}

func TestLotHandler_ParseMissingFile(t *testing.T) {
	router := newLotRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/parse", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLotHandler_LookupNoLots(t *testing.T) {
	router := newLotRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/lookup", bytes.NewBufferString(`{"lots":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNoLots)
}

func TestLotHandler_LookupBlankLots(t *testing.T) {
	router := newLotRouter()

	// A non-empty list whose entries normalize away is still no input.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/lookup", bytes.NewBufferString(`{"lots":["  ", ""]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNoLots)
}
