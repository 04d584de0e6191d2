package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookstore/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/v1/books
// @Summary List books
// @Description Public listing with keyset pagination. q matches title or author.
// @Tags books
// @Produce json
// @Param q query string false "Title or author fragment"
// @Param seller_id query int false "Only this seller's books"
// @Param cursor query string false "Cursor from meta.next_cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Q:      query.Get("q"),
		Cursor: query.Get("cursor"),
	}
	if sellerStr := query.Get("seller_id"); sellerStr != "" {
		if val, err := strconv.ParseInt(sellerStr, 10, 64); err == nil {
			params.SellerID = val
		}
	}
	params.Limit, _ = strconv.Atoi(query.Get("limit"))

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		if errors.Is(err, ErrInvalidCursor) {
			httpx.BadRequest(w, r, "Invalid cursor")
			return
		}
		httpx.InternalError(w, r)
		return
	}

	meta := map[string]any{"count": len(page.Books)}
	if page.NextCursor != "" {
		meta["next_cursor"] = page.NextCursor
	}
	httpx.JSONSuccess(w, r, page.Books, meta)
}

// Get handles GET /api/v1/books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /api/v1/books
// @Summary Create a listing
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Input true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b, nil)
}

// Update handles PUT /api/v1/books/{id}
// @Summary Update own listing
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	sellerID := httpx.UserIDFrom(r)

	// Ownership is answered before the body is looked at.
	owned, err := h.service.Owned(r.Context(), sellerID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	b, err := h.service.Replace(r.Context(), owned, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /api/v1/books/{id}
// @Summary Delete own listing
// @Tags books
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	case errors.Is(err, ErrForbidden):
		httpx.Forbidden(w, r, "You can only modify your own books")
	case errors.Is(err, ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_BOOK", "A book with this title and author already exists", nil)
	default:
		httpx.InternalError(w, r)
	}
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.NotFound(w, r, "Book not found")
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return Input{}, false
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if validationErrors := httpx.ValidateStruct(in); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return Input{}, false
	}
	return in, true
}
