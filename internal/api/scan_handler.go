package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jalan-exam/scanserver/internal/database"
	"github.com/jalan-exam/scanserver/internal/omr"
	"github.com/jalan-exam/scanserver/internal/storage"
)

// ScanHandler accepts a multipart PDF upload and runs it through the scan
// pipeline synchronously, responding with the per-page batch summary.
//
// Form fields:
//
//	file          the scanned sheet batch (PDF)
//	answer_key_id the approved answer key to grade against
//	columns       optional answer column count, defaults to 4
//	template      optional JSON array of per-question bubble coordinates
func (app *App) ScanHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse upload")
		return
	}

	answerKeyID := strings.TrimSpace(r.FormValue("answer_key_id"))
	if answerKeyID == "" {
		writeError(w, http.StatusBadRequest, "answer_key_id is required")
		return
	}

	columns := 4
	if raw := strings.TrimSpace(r.FormValue("columns")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "columns must be a positive integer")
			return
		}
		columns = v
	}

	var template []omr.TemplateQuestion
	if raw := strings.TrimSpace(r.FormValue("template")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &template); err != nil {
			writeError(w, http.StatusBadRequest, "template is not valid JSON")
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	storedFile, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	summary, err := app.Scanner.ScanBatch(r.Context(), answerKeyID, storedFile, columns, template)
	if err != nil {
		app.Storage.DeleteFile(storedFile)
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "answer key not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
