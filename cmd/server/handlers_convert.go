package main

import (
	"errors"
	"net/http"
	"strings"

	"gpdf/internal/artifact"
	"gpdf/internal/converter"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		jsonErr(w, "session_id is required", http.StatusBadRequest)
		return
	}

	// Conversion only makes sense after a summarization this session.
	if s.quota.CheckLimit(sessionID).UsageCount == 0 {
		jsonErr(w, "Summarize a PDF first.", http.StatusBadRequest)
		return
	}

	summaryText := r.FormValue("summary_text")
	if len(strings.TrimSpace(summaryText)) < 10 {
		jsonErr(w, "Valid summary text is required.", http.StatusBadRequest)
		return
	}

	format, err := converter.ParseFormat(r.FormValue("format"))
	if err != nil {
		jsonErr(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.converter.Convert(format, summaryText)
	if err != nil {
		jsonErr(w, "Conversion failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	saved, err := s.artifacts.Save(format, data)
	if err != nil {
		jsonErr(w, "Failed to save converted file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResp(w, ConvertResponse{
		DownloadURL: "/api/download/" + saved.Filename,
		Filename:    saved.Filename,
		FileSize:    saved.Size,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if filename == "" {
		jsonErr(w, "filename is required", http.StatusBadRequest)
		return
	}

	path, err := s.artifacts.Path(filename)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			jsonErr(w, "File not found.", http.StatusNotFound)
			return
		}
		jsonErr(w, "Failed to resolve file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}
