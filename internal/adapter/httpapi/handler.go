// Package httpapi is the REST surface of the catalog. Routes are
// grouped per listing family (/api/products, /api/services,
// /api/jobs); write endpoints require a Bearer token.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ferialibre/catalog-service/internal/adapter/httpapi/middleware"
	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/query"
	"github.com/ferialibre/catalog-service/internal/catalog/usecase"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
	"github.com/ferialibre/catalog-service/internal/platform/metrics"
)

const maxImageBytes = 10 << 20

// wire path segment -> family
var families = map[string]domain.Family{
	"products": domain.FamilyProduct,
	"services": domain.FamilyService,
	"jobs":     domain.FamilyJob,
}

type CatalogHandler struct {
	uc     *usecase.CatalogUsecase
	logger *logger.Logger
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: log.Named("http")}
}

func familyParam(r *http.Request) (domain.Family, bool) {
	f, ok := families[chi.URLParam(r, "family")]
	return f, ok
}

func (h *CatalogHandler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response encoding failed", "error", err.Error())
	}
}

// writeError maps domain errors to HTTP statuses. Validation
// failures carry every violated rule so the client can show them all.
func (h *CatalogHandler) writeError(w http.ResponseWriter, err error) {
	var code int
	body := errorResponse{Error: err.Error()}

	if verr, ok := domain.AsValidation(err); ok {
		code = http.StatusUnprocessableEntity
		body = errorResponse{Error: "validation failed", Errors: verr.Messages}
	} else {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, domain.ErrPermission):
			code = http.StatusForbidden
		case errors.Is(err, domain.ErrInsufficientAvailability):
			code = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidCursor),
			errors.Is(err, domain.ErrInvalidQuantity),
			errors.Is(err, domain.ErrUnknownFamily):
			code = http.StatusBadRequest
		case errors.Is(err, domain.ErrStoreUnavailable):
			code = http.StatusBadGateway
		default:
			code = http.StatusInternalServerError
		}
	}

	metrics.APIErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	h.writeJSON(w, code, body)
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	userID, _ := middleware.UserID(r.Context())

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.uc.CreateListing(r.Context(), userID, req.toDomain(family))
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.ListingsCreatedTotal.WithLabelValues(string(family)).Inc()
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	userID, _ := middleware.UserID(r.Context())

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l := req.toDomain(family)
	l.ID = chi.URLParam(r, "id")
	updated, err := h.uc.UpdateListing(r.Context(), userID, l)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	userID, _ := middleware.UserID(r.Context())

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.uc.SetStatus(r.Context(), userID, family, chi.URLParam(r, "id"), domain.Status(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.uc.Reserve(r.Context(), family, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues(string(family), "rejected").Inc()
		h.writeError(w, err)
		return
	}
	metrics.ReservationsTotal.WithLabelValues(string(family), "accepted").Inc()
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "")
}

// HandleSearchMine scopes the search to the authenticated owner's
// listings, regardless of status.
func (h *CatalogHandler) HandleSearchMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	h.search(w, r, userID)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request, ownerID string) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}

	in := usecase.SearchInput{
		Family:   family,
		OwnerID:  ownerID,
		Criteria: criteriaFromQuery(r),
		SortKey:  domain.SortKey(r.URL.Query().Get("sort")),
		Cursor:   r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			in.PageSize = n
		}
	}

	res, err := h.uc.Search(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.SearchesTotal.WithLabelValues(string(family)).Inc()
	h.writeJSON(w, http.StatusOK, searchResponse{Items: res.Items, NextCursor: res.NextCursor})
}

func criteriaFromQuery(r *http.Request) query.Criteria {
	q := r.URL.Query()
	c := query.Criteria{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Status:      domain.Status(q.Get("status")),
		FreeText:    q.Get("q"),
	}
	if raw := q.Get("modality"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				c.Modalities = append(c.Modalities, domain.Modality(m))
			}
		}
	}
	if raw := q.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.MinPrice = &v
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.MaxPrice = &v
		}
	}
	if q.Get("available") == "true" {
		c.AvailableOnly = true
	}
	if raw := q.Get("days"); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				c.Days = append(c.Days, d)
			}
		}
	}
	return c
}

func (h *CatalogHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	l, err := h.uc.GetListing(r.Context(), family, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, l)
}

func (h *CatalogHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	l, err := h.uc.GetBySlug(r.Context(), family, chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, l)
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	userID, _ := middleware.UserID(r.Context())

	if err := h.uc.DeleteListing(r.Context(), userID, family, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	family, ok := familyParam(r)
	if !ok {
		h.writeError(w, domain.ErrUnknownFamily)
		return
	}
	userID, _ := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		http.Error(w, "reading image failed", http.StatusBadRequest)
		return
	}

	updated, err := h.uc.AttachImage(r.Context(), userID, family, chi.URLParam(r, "id"),
		header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}
