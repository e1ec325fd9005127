package handlers

import (
	"errors"
	"net/http"

	"github.com/shoplist/api/internal/api/types"
	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/services"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 1 << 20

type UploadHandler struct {
	imports  services.ImportService
	maxBytes int64
}

func NewUploadHandler(imports services.ImportService, maxBytes int64) *UploadHandler {
	return &UploadHandler{imports: imports, maxBytes: maxBytes}
}

// Upload imports the multipart "file" field as CSV.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorStr(w, http.StatusRequestEntityTooLarge, "File is too large.")
			return
		}
		writeErrorStr(w, http.StatusBadRequest, services.MsgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil || header.Size == 0 {
		writeErrorStr(w, http.StatusBadRequest, services.MsgNoFile)
		return
	}
	defer file.Close()

	n, err := h.imports.ImportCSV(r.Context(), caller, header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ImportResponse{Message: services.MsgImportSuccess, Imported: n})
}
