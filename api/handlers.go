/*
handlers.go - HTTP API handlers for the cost reporting engine

PURPOSE:
  Exposes the apportionment and aggregation engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Products:
    GET /api/products                    List all products
    GET /api/products/{id}               Get product details
    GET /api/products/{id}/stats         Stats between ?start and ?end
    GET /api/products/{id}/cost          Total or ?to-bounded cost
    GET /api/products/{id}/profile       Per-period profile (?frequency=MS|YS)

  Groups:
    GET /api/groups/{id}/profile         Group profile (?frequency=MS|YS)

  People:
    GET /api/people/{id}/rate            Daily rate between ?start and ?end
                                         (?kind=total|base|additional, ?name=)

  Demo:
    POST /api/demo/load                  Seed a worked example portfolio

REQUEST FLOW:
  1. Parse HTTP request (path params, date query params)
  2. Validate and build the time window
  3. Call engine
  4. Serialize response with presentation rounding
  5. Map errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed dates, reversed windows, unknown frequency
  - 404: Product, group or person not found
  - 422: Data gaps (e.g. effort booked before any rate exists)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - demo.go: Demo portfolio loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the API needs: the engine reads through
// RecordStore, the demo loader writes through RecordWriter.
type Store interface {
	portfolio.RecordStore
	portfolio.RecordWriter
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  Store
	Engine *portfolio.Engine
	Log    *slog.Logger
}

// NewHandler creates a handler backed by the given store and calendar.
func NewHandler(store Store, cal *finance.Calendar, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:  store,
		Engine: portfolio.NewEngine(store, cal),
		Log:    log,
	}
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.Products(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := portfolio.ProductID(chi.URLParam(r, "id"))

	p, err := h.Store.Product(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

// GetProductStats returns the cost breakdown of a product between two dates.
// GET /api/products/{id}/stats?start=2016-01-01&end=2016-01-31
func (h *Handler) GetProductStats(w http.ResponseWriter, r *http.Request) {
	id := portfolio.ProductID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time window", err)
		return
	}

	stats, err := h.Engine.StatsBetween(r.Context(), id, window)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// GetProductCost returns the lifetime cost of a product, or the cost up to
// ?to=YYYY-MM-DD when given.
func (h *Handler) GetProductCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := portfolio.ProductID(chi.URLParam(r, "id"))

	dto := CostDTO{ProductID: string(id)}
	if to := r.URL.Query().Get("to"); to != "" {
		endDate, err := finance.ParseDate(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' date (use YYYY-MM-DD)", err)
			return
		}
		amount, err := h.Engine.CostTo(ctx, id, endDate)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		dto.End = endDate.String()
		dto.Amount = finance.Round2(amount).StringFixed(2)
	} else {
		amount, err := h.Engine.TotalCost(ctx, id)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		dto.Amount = finance.Round2(amount).StringFixed(2)
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetProductProfile returns a product's per-period cost profile over its
// active span.
func (h *Handler) GetProductProfile(w http.ResponseWriter, r *http.Request) {
	id := portfolio.ProductID(chi.URLParam(r, "id"))

	freq, err := parseFrequency(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid frequency (use MS or YS)", err)
		return
	}

	profile, err := h.Engine.ProductProfile(r.Context(), id, freq)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// =============================================================================
// GROUP HANDLERS
// =============================================================================

// GetGroupProfile returns the combined per-period profile of every product in
// a group.
func (h *Handler) GetGroupProfile(w http.ResponseWriter, r *http.Request) {
	id := portfolio.GroupID(chi.URLParam(r, "id"))

	freq, err := parseFrequency(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid frequency (use MS or YS)", err)
		return
	}

	profile, err := h.Engine.GroupProfile(r.Context(), id, freq)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

// GetPersonRate returns a person's daily rate over a window.
// GET /api/people/{id}/rate?start=...&end=...&kind=total|base|additional&name=...
func (h *Handler) GetPersonRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := portfolio.PersonID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time window", err)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "total"
	}

	var rate decimal.Decimal
	switch kind {
	case "total":
		rate, err = h.Engine.PersonTotalRateBetween(ctx, id, window)
	case "base":
		rate, err = h.Engine.PersonBaseRateBetween(ctx, id, window)
	case "additional":
		rate, err = h.Engine.PersonAdditionalRateBetween(ctx, id, window, r.URL.Query().Get("name"))
	default:
		writeError(w, http.StatusBadRequest, "Invalid kind (use total, base or additional)", nil)
		return
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RateDTO{
		PersonID: string(id),
		Kind:     kind,
		Start:    window.Start.String(),
		End:      window.End.String(),
		Rate:     finance.Round2(rate).StringFixed(2),
	})
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

func parseWindow(r *http.Request) (finance.TimeWindow, error) {
	start, err := finance.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return finance.TimeWindow{}, err
	}
	end, err := finance.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return finance.TimeWindow{}, err
	}
	return finance.NewTimeWindow(start, end)
}

func parseFrequency(r *http.Request) (finance.Frequency, error) {
	switch strings.ToUpper(r.URL.Query().Get("frequency")) {
	case "", "MS", "MONTHLY":
		return finance.Monthly, nil
	case "YS", "ANNUALLY":
		return finance.Annually, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", r.URL.Query().Get("frequency"))
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeDomainError maps a domain error to an HTTP status. Not-found and
// malformed-input errors are the caller's fault; rate gaps mean the stored
// records can't answer the question; everything else is a 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case portfolio.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case finance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case finance.IsDataGap(err):
		writeError(w, http.StatusUnprocessableEntity, "Incomplete rate data", err)
	default:
		h.Log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
