package casekeeper

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

// maxUploadBytes caps file uploads at 10 MB.
const maxUploadBytes = 10 << 20

// allowedFileTypes is the upload content-type allow list. Anything else is
// rejected before the payload is read into memory.
var allowedFileTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"text/plain":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// handleUploadDocument accepts a multipart form with a "file" part plus
// optional "category" and "description" fields. The payload is stored
// base64-encoded in the document record; responses never include it.
func (a *App) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		respondError(w, http.StatusBadRequest, "file exceeds 10MB limit")
		return
	}

	fileType := header.Header.Get("Content-Type")
	if !allowedFileTypes[fileType] {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", fileType))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(data) > maxUploadBytes {
		respondError(w, http.StatusBadRequest, "file exceeds 10MB limit")
		return
	}

	doc := &models.Document{
		ID:          models.NewDocumentID(),
		OwnerID:     currentUser(r).ID,
		Filename:    header.Filename,
		FileType:    fileType,
		FileSize:    int64(len(data)),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Data:        base64.StdEncoding.EncodeToString(data),
		CreatedAt:   a.now(),
	}

	if err := a.store.CreateDocument(r.Context(), doc); err != nil {
		a.log.Error().Err(err).Msg("failed to create document")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (a *App) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := a.store.ListDocuments(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	respondJSON(w, http.StatusOK, docs)
}

func (a *App) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}
	doc, err := a.store.GetDocument(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handleDownloadDocument streams the decoded file content with its original
// content type and filename.
func (a *App) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}
	doc, err := a.store.GetDocument(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}

	data, err := base64.StdEncoding.DecodeString(doc.Data)
	if err != nil {
		a.log.Error().Err(err).Str("document", doc.ID.String()).Msg("stored payload is not valid base64")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDocumentID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}
	if err := a.store.DeleteDocument(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}
