// Package upload proxies the CSV import form. Parts are validated locally
// and re-packaged into a fresh multipart body before anything reaches the
// upstream.
package upload

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/proxy"
)

const (
	upstreamPath = "/upload"
	maxFormSize  = 32 << 20

	missingPartsMessage = `Campos "resource", "action", "model" e "file" são obrigatórios`
)

// Handler forwards multipart import requests upstream.
type Handler struct {
	logger *slog.Logger
	client *upstream.Client
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *upstream.Client) *Handler {
	return &Handler{logger: logger, client: client}
}

// MountRoutes registers the upload route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleUpload)
}

type uploadResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, "Nenhum dado enviado no corpo da requisição.", nil))
		return
	}

	action := r.FormValue("action")
	model := r.FormValue("model")
	invoiceID := r.FormValue("invoice_id")
	file, fileHeader, fileErr := r.FormFile("file")

	if action == "" || model == "" || fileErr != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, "Bad Request", missingPartsMessage))
		return
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if invoiceID != "" {
		if err := form.WriteField("invoice_id", invoiceID); err != nil {
			h.respondRepackError(w, err)
			return
		}
	}
	if err := form.WriteField("action", action); err != nil {
		h.respondRepackError(w, err)
		return
	}
	if err := form.WriteField("model", model); err != nil {
		h.respondRepackError(w, err)
		return
	}

	filename := fileHeader.Filename
	if filename == "" {
		filename = "arquivo.csv"
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		h.respondRepackError(w, err)
		return
	}
	if _, err := io.Copy(part, file); err != nil {
		h.respondRepackError(w, err)
		return
	}
	if err := form.Close(); err != nil {
		h.respondRepackError(w, err)
		return
	}

	res, err := h.client.DoRaw(r.Context(), http.MethodPost, upstreamPath, nil, form.FormDataContentType(), &body, "")
	if err != nil {
		normalized := proxy.NormalizeFault(err)
		h.logger.Error("upload failed", slog.Int("status", normalized.StatusCode), slog.String("message", normalized.StatusMessage))
		httpx.RespondError(w, normalized)
		return
	}

	httpx.JSON(w, http.StatusOK, uploadResponse{Success: res.StatusCode == http.StatusAccepted})
}

func (h *Handler) respondRepackError(w http.ResponseWriter, err error) {
	h.logger.Error("repack upload form", slog.Any("error", err))
	httpx.RespondError(w, httpx.NewError(0, "", httpx.GenericDetail))
}
