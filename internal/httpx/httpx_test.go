package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zekrotja/hermans/internal/catalog"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/orders"
)

type fakeCatalog struct {
	data *model.ShopData
	err  error
}

func (c fakeCatalog) Get(context.Context) (*model.ShopData, error) {
	if c.err != nil {
		return nil, c.err
	}
	return catalog.WithSurprise(c.data), nil
}

type fakeActivity map[string]*model.ListActivity

func (a fakeActivity) Get(_ context.Context, id string) (*model.ListActivity, error) {
	if v, ok := a[id]; ok {
		return v, nil
	}
	return &model.ListActivity{}, nil
}

func shop() *model.ShopData {
	return &model.ShopData{
		Categories: []*model.ShopCategory{{ID: "burger", Name: "Burger", Items: []*model.ShopStoreItem{
			{ID: "cheese", Title: "Cheeseburger", Variants: []*model.ShopVariant{{Name: "vegetarisch"}}, Dips: []string{"mayo"}},
		}}},
		Drinks: []*model.ShopDrinkItem{{Name: "Cola"}},
	}
}

type testServer struct {
	*httptest.Server
	svc *orders.Service

	mu  sync.Mutex
	now time.Time
}

func (ts *testServer) clock() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

func (ts *testServer) advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = ts.now.Add(d)
}

func newTestServer(t *testing.T, cat orders.Catalog, act ActivityReader) *testServer {
	t.Helper()
	ts := &testServer{now: time.Now().UTC()}
	ts.svc = &orders.Service{
		Store:       orders.NewMemStore(),
		Catalog:     cat,
		Log:         logger.Discard(),
		ServiceName: "test",
		Now:         ts.clock,
	}
	r := NewRouter(logger.Discard())
	(&OrdersHandler{Service: ts.svc, Catalog: cat, Activity: act, Log: logger.Discard()}).Register(r)
	ts.Server = httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func validOrder() model.CreateOrder {
	return model.CreateOrder{
		Creator:   "Kim",
		StoreItem: &model.StoreItem{ID: "cheese", Variants: []string{"vegetarisch"}},
		Drink:     &model.Drink{Name: "Cola", Size: model.DrinkSizeSmall},
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	res := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	res := ts.do(t, http.MethodOptions, "/api/lists/abc/orders", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestItems(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	res := ts.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	data := decode[model.ShopData](t, res)
	require.Len(t, data.Categories, 2)
	assert.Equal(t, catalog.SurpriseCategoryID, data.Categories[0].ID)
	assert.Equal(t, "burger", data.Categories[1].ID)
}

func TestItems_CatalogUnavailable(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{err: errors.New("shop down")}, nil)
	res := ts.do(t, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, CodeCatalog, decode[ErrorResponse](t, res).Code)
}

func TestListLifecycle(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)

	res := ts.do(t, http.MethodPost, "/api/lists", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	list := decode[model.OrderList](t, res)
	require.NotEmpty(t, list.ID)

	res = ts.do(t, http.MethodGet, "/api/lists/"+list.ID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, list.ID, decode[model.OrderList](t, res).ID)

	res = ts.do(t, http.MethodDelete, "/api/lists/"+list.ID, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = ts.do(t, http.MethodGet, "/api/lists/"+list.ID, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	e := decode[ErrorResponse](t, res)
	assert.Equal(t, CodeNotFound, e.Code)
	assert.Equal(t, http.StatusNotFound, e.Status)
}

func TestCreateList_WithDeadline(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	deadline := ts.clock().Add(time.Hour).Truncate(time.Second)

	res := ts.do(t, http.MethodPost, "/api/lists", model.CreateListPayload{Deadline: &deadline})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	list := decode[model.OrderList](t, res)
	require.NotNil(t, list.Deadline)
	assert.True(t, deadline.Equal(*list.Deadline))
}

func TestCreateOrder(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", nil))

	res := ts.do(t, http.MethodPost, "/api/lists/"+list.ID+"/orders", validOrder())
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decode[model.CreatedOrder](t, res)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.EditKey)

	res = ts.do(t, http.MethodGet, "/api/lists/"+list.ID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	raw := decode[json.RawMessage](t, res)
	assert.Contains(t, string(raw), created.ID)
	assert.NotContains(t, string(raw), "editKey")
	assert.NotContains(t, string(raw), created.EditKey)
}

func TestCreateOrder_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"bad json", "{", http.StatusBadRequest, CodeBadRequest},
		{"empty body", nil, http.StatusBadRequest, CodeBadRequest},
		{"missing creator", model.CreateOrder{StoreItem: &model.StoreItem{ID: "cheese"}}, http.StatusBadRequest, CodeValidation},
		{"unknown item", model.CreateOrder{Creator: "Kim", StoreItem: &model.StoreItem{ID: "pizza"}}, http.StatusBadRequest, CodeInvalidItem},
		{"bad dip", model.CreateOrder{Creator: "Kim", StoreItem: &model.StoreItem{ID: "cheese", Dips: []string{"bbq"}}}, http.StatusBadRequest, CodeInvalidDips},
		{"unknown drink", model.CreateOrder{Creator: "Kim", StoreItem: &model.StoreItem{ID: "cheese"}, Drink: &model.Drink{Name: "Beer"}}, http.StatusBadRequest, CodeInvalidDrink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
			list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", nil))

			res := ts.do(t, http.MethodPost, "/api/lists/"+list.ID+"/orders", tt.body)

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			e := decode[ErrorResponse](t, res)
			assert.Equal(t, tt.wantCode, e.Code)
			if tt.wantCode == CodeValidation {
				require.NotEmpty(t, e.ValidationErrors)
				assert.Equal(t, "CreateOrder.Creator", e.ValidationErrors[0].Field)
			}
		})
	}
}

func TestCreateOrder_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	list, err := ts.svc.CreateList(context.Background(), nil)
	require.NoError(t, err)

	r := NewRouter(logger.Discard())
	(&OrdersHandler{Service: ts.svc, Catalog: fakeCatalog{data: shop()}, Log: logger.Discard()}).Register(r)
	body := `{"creator":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/lists/"+list.ID+"/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateOrder_UnknownListAndDeadline(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)

	res := ts.do(t, http.MethodPost, "/api/lists/missing/orders", validOrder())
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	deadline := ts.clock().Add(time.Minute)
	list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", model.CreateListPayload{Deadline: &deadline}))
	ts.advance(time.Hour)

	res = ts.do(t, http.MethodPost, "/api/lists/"+list.ID+"/orders", validOrder())
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, CodeDeadline, decode[ErrorResponse](t, res).Code)
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", nil))
	created := decode[model.CreatedOrder](t, ts.do(t, http.MethodPost, "/api/lists/"+list.ID+"/orders", validOrder()))
	orderPath := "/api/lists/" + list.ID + "/orders/" + created.ID

	upd := model.UpdateOrderPayload{CreateOrder: validOrder(), EditKey: "nope"}
	upd.Creator = "Alex"
	res := ts.do(t, http.MethodPut, orderPath, upd)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, CodeInvalidEditKey, decode[ErrorResponse](t, res).Code)

	upd.EditKey = created.EditKey
	res = ts.do(t, http.MethodPut, orderPath, upd)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Alex", decode[model.Order](t, res).Creator)

	res = ts.do(t, http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Alex", decode[model.Order](t, res).Creator)

	res = ts.do(t, http.MethodDelete, orderPath, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = ts.do(t, http.MethodDelete, orderPath+"?editKey="+created.EditKey, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = ts.do(t, http.MethodGet, orderPath, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteOrder_KeyInBody(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)
	list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", nil))
	created := decode[model.CreatedOrder](t, ts.do(t, http.MethodPost, "/api/lists/"+list.ID+"/orders", validOrder()))

	res := ts.do(t, http.MethodDelete, "/api/lists/"+list.ID+"/orders/"+created.ID,
		model.DeleteOrderPayload{EditKey: created.EditKey})
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestActivity(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	act := fakeActivity{}
	ts := newTestServer(t, fakeCatalog{data: shop()}, act)
	list := decode[model.OrderList](t, ts.do(t, http.MethodPost, "/api/lists", nil))
	act[list.ID] = &model.ListActivity{Orders: 3, LastOrderAt: &at}

	res := ts.do(t, http.MethodGet, "/api/lists/"+list.ID+"/activity", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[model.ListActivity](t, res)
	assert.Equal(t, int64(3), got.Orders)
	require.NotNil(t, got.LastOrderAt)
	assert.True(t, at.Equal(*got.LastOrderAt))

	res = ts.do(t, http.MethodGet, "/api/lists/missing/activity", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFeedback(t *testing.T) {
	ts := newTestServer(t, fakeCatalog{data: shop()}, nil)

	res := ts.do(t, http.MethodPost, "/api/feedback", `{"type":"bug","message":"broken button","page":"/lists/abc"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	fb := decode[model.Feedback](t, res)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, "broken button", fb.Message)

	res = ts.do(t, http.MethodPost, "/api/feedback", `{"type":"bug","message":"  ","page":"/"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMountWebapp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	r := NewRouter(logger.Discard())
	MountWebapp(r, dir)
	srv := httptest.NewServer(r)
	defer srv.Close()

	for path, want := range map[string]string{
		"/app.js":    "console.log(1)",
		"/lists/abc": "<html>app</html>",
	} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(res.Body)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Equal(t, want, buf.String(), path)
	}
}
