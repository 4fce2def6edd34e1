package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/orders"
)

type ActivityReader interface {
	Get(ctx context.Context, listID string) (*model.ListActivity, error)
}

type OrdersHandler struct {
	Service  *orders.Service
	Catalog  orders.Catalog
	Activity ActivityReader // optional
	Log      *slog.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/items", h.getItems)
		r.Post("/feedback", h.postFeedback)

		r.Post("/lists", h.createList)
		r.Route("/lists/{listId}", func(r chi.Router) {
			r.Get("/", h.getList)
			r.Delete("/", h.deleteList)
			r.Get("/activity", h.getActivity)
			r.Post("/orders", h.createOrder)
			r.Get("/orders/{orderId}", h.getOrder)
			r.Put("/orders/{orderId}", h.updateOrder)
			r.Delete("/orders/{orderId}", h.deleteOrder)
		})
	})
}

func (h *OrdersHandler) getItems(w http.ResponseWriter, r *http.Request) {
	// a cold cache scrapes the shop, which takes a few round trips
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	data, err := h.Catalog.Get(ctx)
	if err != nil {
		h.Log.Error("catalog unavailable", logger.Err(err))
		writeError(w, http.StatusServiceUnavailable, CodeCatalog, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *OrdersHandler) createList(w http.ResponseWriter, r *http.Request) {
	var req model.CreateListPayload
	if err := readJSONBody(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		badJSON(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Service.CreateList(ctx, req.Deadline)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *OrdersHandler) getList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.GetList(ctx, chi.URLParam(r, "listId"))
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) deleteList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.DeleteList(ctx, chi.URLParam(r, "listId")); err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) getActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	listID := chi.URLParam(r, "listId")
	// 404 for unknown lists, the counters themselves may lag behind
	if _, err := h.Service.GetList(ctx, listID); err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	if h.Activity == nil {
		writeJSON(w, http.StatusOK, model.ListActivity{})
		return
	}
	a, err := h.Activity.Get(ctx, listID)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrder
	if err := readJSONBody(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.Service.CreateOrder(ctx, chi.URLParam(r, "listId"), &req)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.GetOrder(ctx, chi.URLParam(r, "listId"), chi.URLParam(r, "orderId"))
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateOrderPayload
	if err := readJSONBody(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.UpdateOrder(ctx, chi.URLParam(r, "listId"), chi.URLParam(r, "orderId"), &req)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteOrderPayload
	if err := readJSONBody(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		badJSON(w, err)
		return
	}
	// some clients can't send a DELETE body
	if req.EditKey == "" {
		req.EditKey = r.URL.Query().Get("editKey")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Service.DeleteOrder(ctx, chi.URLParam(r, "listId"), chi.URLParam(r, "orderId"), req.EditKey)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) postFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.Feedback
	if err := readJSONBody(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	fb, err := h.Service.SubmitFeedback(ctx, &req)
	if err != nil {
		respondErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}
