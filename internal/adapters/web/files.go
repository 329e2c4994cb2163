package web

import (
	"net/http"

	"studio-orders/internal/core"
)

// maxUploadBytes caps a single attachment at 50 MB.
const maxUploadBytes = 50 << 20

// uploadFile handles POST /api/files as multipart form data with a "file"
// part.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, r, "invalid multipart body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, "missing file part", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var uploadedBy *string
	if claims := authFromContext(r.Context()); claims != nil {
		uploadedBy = &claims.UserID
	}

	uploaded, err := h.svc.UploadFile(r.Context(), core.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, uploaded)
}

// listFiles handles GET /api/files.
func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListFiles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Files []core.UploadedFile `json:"files"`
	}
	writeJSON(w, response{Files: files})
}

// fileDownloadURL handles GET /api/files/{id}/download-url.
func (h *Handler) fileDownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.FileDownloadURL(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		URL string `json:"url"`
	}
	writeJSON(w, response{URL: url})
}

// deleteFile handles DELETE /api/files/{id}.
func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFile(r.Context(), urlParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
