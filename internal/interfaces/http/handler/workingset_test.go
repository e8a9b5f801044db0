package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/erp"
	"github.com/creditnote/backend/internal/infrastructure/session"
	"github.com/creditnote/backend/internal/interfaces/http/dto"
	"github.com/creditnote/backend/internal/interfaces/http/middleware"
)

// offlineGateway fails every call. The staging endpoints never reach
// the backend, so these tests only need a gateway for construction.
type offlineGateway struct{}

func (offlineGateway) Authenticate(context.Context) (int64, error) { return 0, erp.ErrUnavailable }
func (offlineGateway) Search(context.Context, string, erp.Domain, *erp.Options) ([]int64, error) {
	return nil, erp.ErrUnavailable
}
func (offlineGateway) Read(context.Context, string, []int64, []string) ([]erp.Record, error) {
	return nil, erp.ErrUnavailable
}
func (offlineGateway) SearchRead(context.Context, string, erp.Domain, *erp.Options) ([]erp.Record, error) {
	return nil, erp.ErrUnavailable
}
func (offlineGateway) Create(context.Context, string, map[string]any) (int64, error) {
	return 0, erp.ErrUnavailable
}

func newWorkingSetRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	gateway := offlineGateway{}
	svc := app.NewWorkingSetService(
		store,
		creditnote.NewLineBuilder(gateway, nil),
		creditnote.NewSubmitter(gateway, "Vendor Bills", nil),
		app.NewCompanyResolver(gateway, "Main Company"),
		nil,
		app.Defaults{},
		time.Hour,
		nil,
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.OperatorKey, "alex")
	})
	NewWorkingSetHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const addLineBody = `{
	"vendor": "Acme Supplies",
	"purchase_order": "PO100",
	"description": "WGT-1 Widget variant",
	"lots": ["L1", "L2"],
	"unit_price": 500,
	"discount": 10
}`

func TestWorkingSetHandler_AddAndGet(t *testing.T) {
	router := newWorkingSetRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/working-set/lines", addLineBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/working-set", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Acme Supplies", data["vendor"])

	lines := data["lines"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "PO100", line["purchase_order"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestWorkingSetHandler_VendorMismatch(t *testing.T) {
	router := newWorkingSetRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/working-set/lines", addLineBody)
	require.Equal(t, http.StatusOK, w.Code)

	other := strings.Replace(addLineBody, "Acme Supplies", "Globex", 1)
	other = strings.Replace(other, "PO100", "PO200", 1)
	w = doJSON(router, http.MethodPost, "/api/v1/working-set/lines", other)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeVendorMismatch)
}

func TestWorkingSetHandler_AdjustQuantity(t *testing.T) {
	router := newWorkingSetRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/working-set/lines", addLineBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/working-set/lines",
		`{"purchase_order":"PO100","description":"WGT-1 Widget variant","quantity":3}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeQuantityRange)

	w = doJSON(router, http.MethodPut, "/api/v1/working-set/lines",
		`{"purchase_order":"PO100","description":"WGT-1 Widget variant","quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":1`)
}

func TestWorkingSetHandler_RemoveRequiresKey(t *testing.T) {
	router := newWorkingSetRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/working-set/lines", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkingSetHandler_SubmitEmptySet(t *testing.T) {
	router := newWorkingSetRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/working-set/submit", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeEmptyWorkingSet)
}

func TestWorkingSetHandler_Clear(t *testing.T) {
	router := newWorkingSetRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/working-set/lines", addLineBody)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/working-set", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/working-set", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lines":[]`)
}
