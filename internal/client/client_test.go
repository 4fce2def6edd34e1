package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zekrotja/hermans/internal/model"
)

func TestResolveRootURL(t *testing.T) {
	tests := []struct {
		explicit   string
		production bool
		want       string
	}{
		{"", true, "/api"},
		{"", false, "http://localhost:8080/api"},
		{"https://hermans.example/api", true, "https://hermans.example/api"},
		{"https://hermans.example/api", false, "https://hermans.example/api"},
	}
	for _, tt := range tests {
		if got := ResolveRootURL(tt.explicit, tt.production); got != tt.want {
			t.Errorf("ResolveRootURL(%q, %v) = %q, want %q", tt.explicit, tt.production, got, tt.want)
		}
	}
}

func TestDo_NoContentYieldsEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/lists/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	list, err := New(srv.URL+"/api/").DeleteList(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, model.OrderList{}, *list)
}

func TestDo_StatusError(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"code":"x"}`))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetList(context.Background(), "abc")

			var sErr *StatusError
			require.ErrorAs(t, err, &sErr)
			assert.Equal(t, code, sErr.Code)
			assert.Equal(t, fmt.Sprintf("request failed with status code %d", code), err.Error())
		})
	}
}

func TestDo_DecodeErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetList(context.Background(), "abc")
	require.Error(t, err)
	var sErr *StatusError
	assert.False(t, errors.As(err, &sErr))
	assert.NotErrorIs(t, err, ErrInvalidResponse)
}

func TestDo_InvalidShapeFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created":"2025-06-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetList(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSubmitFeedback_Body(t *testing.T) {
	var body string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/feedback", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"f1","type":"bug","message":"broken button","page":"/lists/abc"}`))
	}))
	defer srv.Close()

	fb, err := New(srv.URL+"/api").SubmitFeedback(context.Background(), &model.Feedback{
		ID: "ignored", Type: "bug", Message: "broken button", Page: "/lists/abc",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"bug","message":"broken button","page":"/lists/abc"}`, body)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "f1", fb.ID)
}

// fakeAPI is a tiny list store that echoes ids like the real server.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	lists := map[string]*model.OrderList{}
	n := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /lists", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		mu.Lock()
		n++
		l := &model.OrderList{ID: fmt.Sprintf("list-%d", n)}
		lists[l.ID] = l
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(l)
	})
	mux.HandleFunc("GET /lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		l, ok := lists[r.PathValue("id")]
		mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(l)
	})
	mux.HandleFunc("DELETE /lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		delete(lists, r.PathValue("id"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /lists/{id}/orders", func(w http.ResponseWriter, r *http.Request) {
		var in model.CreateOrder
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.CreatedOrder{
			Order:   model.Order{CreateOrder: in, ID: "o1"},
			EditKey: "k1",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLists_DistinctIDsEchoed(t *testing.T) {
	c := New(fakeAPI(t).URL)
	ctx := context.Background()

	a, err := c.CreateList(ctx)
	require.NoError(t, err)
	b, err := c.CreateList(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	got, err := c.GetList(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = c.DeleteList(ctx, a.ID)
	require.NoError(t, err)
	_, err = c.GetList(ctx, a.ID)
	var sErr *StatusError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, http.StatusNotFound, sErr.Code)
}

func TestCreateOrder(t *testing.T) {
	c := New(fakeAPI(t).URL, WithHTTPClient(http.DefaultClient))

	o, err := c.CreateOrder(context.Background(), "list-1", &model.CreateOrder{
		Creator:   "Kim",
		StoreItem: &model.StoreItem{ID: "cheese"},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "k1", o.EditKey)
	assert.Equal(t, "cheese", o.StoreItem.ID)
}

func TestFence(t *testing.T) {
	var f Fence
	first := f.Begin()
	second := f.Begin()
	assert.False(t, f.IsLatest(first))
	assert.True(t, f.IsLatest(second))
}

func TestNew_UsesPlatformDefaultTimeout(t *testing.T) {
	c := New("http://localhost:8080/api")
	assert.Zero(t, c.http.Timeout)
}

func TestPathIDsAreEscaped(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.EscapedPath())
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	_, err := c.GetList(ctx, "a/b")
	require.Error(t, err)
	_, err = c.DeleteList(ctx, "a?b")
	require.Error(t, err)
	_, err = c.CreateOrder(ctx, "a b", &model.CreateOrder{})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/lists/a%2Fb", "/lists/a%3Fb", "/lists/a%20b/orders"}, paths)
}
