package ingest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
)

const uploadField = "file"

var errMissingFile = errors.New("multipart field \"file\" is required")

type HTTPHandler struct {
	svc       *Service
	uploadDir string
	logger    *zap.Logger
}

// NewHTTPHandler builds the upload endpoints. Uploads are spooled under
// uploadDir, or the system temp dir when it is empty.
func NewHTTPHandler(svc *Service, uploadDir string, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, uploadDir: uploadDir, logger: logger}
}

// Upload handles POST /api/v1/books/upload
// @Summary Bulk import books from CSV
// @Description Rows whose (title, author) already exist, or repeat an earlier row, are rejected and reported; the rest are stored in one transaction.
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV with title, author, price, publishedDate columns"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books/upload [post]
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	spool, fileName, err := h.spoolUpload(r)
	if spool != nil {
		defer func() {
			_ = spool.Close()
			if rmErr := os.Remove(spool.Name()); rmErr != nil {
				h.logger.Warn("failed to remove upload spool", zap.String("path", spool.Name()), zap.Error(rmErr))
			}
		}()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit", nil)
		case errors.Is(err, errMissingFile), errors.Is(err, http.ErrNotMultipart):
			httpx.BadRequest(w, r, "A CSV file is required in the \"file\" field")
		default:
			h.logger.Error("failed to spool upload", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
			httpx.BadRequest(w, r, "Could not read upload")
		}
		return
	}

	summary, err := h.svc.Import(r.Context(), httpx.UserIDFrom(r), fileName, spool)
	if err != nil {
		h.writeError(w, r, summary, err)
		return
	}

	httpx.JSONCreated(w, r, summary, nil)
}

// ListRuns handles GET /api/v1/imports
// @Summary List own bulk imports
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max runs (default 20, max 100)"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/v1/imports [get]
func (h *HTTPHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.svc.ListRuns(r.Context(), httpx.UserIDFrom(r), limit)
	if err != nil {
		h.logger.Error("failed to list import runs", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, runs, nil)
}

// spoolUpload copies the "file" part to a temp file and rewinds it. The
// returned file, when non-nil, belongs to the caller even if err is set.
func (h *HTTPHandler) spoolUpload(r *http.Request) (*os.File, string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", errMissingFile
		}
		if err != nil {
			return nil, "", err
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}
		f, err := h.copyPart(part)
		return f, part.FileName(), err
	}
}

func (h *HTTPHandler) copyPart(part *multipart.Part) (*os.File, error) {
	defer part.Close()

	f, err := os.CreateTemp(h.uploadDir, "upload-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create spool: %w", err)
	}
	if _, err := io.Copy(f, part); err != nil {
		return f, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return f, err
	}
	return f, nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, summary Summary, err error) {
	switch {
	case errors.Is(err, ErrNothingToImport):
		httpx.JSONError(w, r, http.StatusBadRequest, "NO_NEW_BOOKS", "no new books to upload", rejectionDetails(summary.Rejected))
	case errors.Is(err, ErrBadHeader), errors.Is(err, ErrMalformedFile):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
	case errors.Is(err, book.ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_BOOK", "A book in this upload was stored concurrently; nothing was imported", nil)
	default:
		h.logger.Error("import failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Int64("run_id", summary.RunID),
			zap.Error(err),
		)
		httpx.InternalError(w, r)
	}
}

func rejectionDetails(rejected []Rejection) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, len(rejected))
	for _, rej := range rejected {
		details = append(details, httpx.ErrorDetail{
			Field:   fmt.Sprintf("line %d", rej.Line),
			Message: fmt.Sprintf("%s: %q by %q", rej.Reason, rej.Title, rej.Author),
		})
	}
	return details
}
