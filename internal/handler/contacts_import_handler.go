package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/mapping"
	"github.com/octobees/contacts-hub/internal/metrics"
	"github.com/octobees/contacts-hub/internal/service"
	"github.com/octobees/contacts-hub/internal/spreadsheet"
)

// Import sources used as metric labels.
const (
	importSourceJSON   = "json"
	importSourceUpload = "upload"
)

// ImportHandler runs batch contact imports.
type ImportHandler struct {
	importer       *service.Importer
	maxUploadBytes int64
}

// NewImportHandler wires a handler backed by the importer. maxUploadBytes caps
// the multipart body of the upload endpoint; zero disables the cap.
func NewImportHandler(importer *service.Importer, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{importer: importer, maxUploadBytes: maxUploadBytes}
}

// Import handles POST /contacts/import with a {files, mappings} JSON body.
func (h *ImportHandler) Import(c echo.Context) error {
	var req dto.ImportRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}
	return h.run(c, importSourceJSON, req)
}

// Upload handles POST /contacts/import/upload. The multipart form carries one
// or more "files" parts (CSV or XLSX) and a "mappings" field holding a JSON
// array with one mapping per file, in upload order.
func (h *ImportHandler) Upload(c echo.Context) error {
	if h.maxUploadBytes > 0 {
		r := c.Request()
		r.Body = http.MaxBytesReader(c.Response(), r.Body, h.maxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return Error(c, http.StatusBadRequest, "missing files")
	}

	var mappings []mapping.Mapping
	if raw := form.Value["mappings"]; len(raw) == 0 || json.Unmarshal([]byte(raw[0]), &mappings) != nil {
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}

	req := dto.ImportRequest{
		Files:    make([]dto.FileRows, 0, len(headers)),
		Mappings: mappings,
	}
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			return Error(c, http.StatusBadRequest, "unable to open file")
		}
		rows, err := spreadsheet.Parse(fh.Filename, file)
		file.Close()
		if err != nil {
			if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
				return Error(c, http.StatusBadRequest, fmt.Sprintf("%s: %v", fh.Filename, err))
			}
			return Error(c, http.StatusBadRequest, fmt.Sprintf("unable to parse %s", fh.Filename))
		}
		req.Files = append(req.Files, dto.FileRows(rows))
	}

	return h.run(c, importSourceUpload, req)
}

func (h *ImportHandler) run(c echo.Context, source string, req dto.ImportRequest) error {
	if err := dto.Validate(req); err != nil {
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	metrics.ImportJobsTotal.WithLabelValues(source).Inc()
	result, err := h.importer.Import(c.Request().Context(), actor.ID, req)
	if err != nil {
		var validationErr service.ValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, "Invalid request format")
		}
		return serverError(c, err, "Failed to import contacts")
	}

	return c.JSON(http.StatusOK, dto.ImportResponse{
		Status:        "success",
		Message:       "Import completed",
		TotalImported: result.TotalImported,
		Errors:        result.Errors,
	})
}
