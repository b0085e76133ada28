package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gpdf/internal/docstore"
	"gpdf/internal/qa"
)

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req QARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FileID == "" {
		jsonErr(w, "file_id is required", http.StatusBadRequest)
		return
	}

	answer, err := s.qa.Ask(r.Context(), req.Question, req.FileID)
	if err != nil {
		var verr *qa.ValidationError
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			jsonErr(w, "PDF file not found.", http.StatusNotFound)
		case errors.As(err, &verr):
			jsonErr(w, verr.Reason, http.StatusBadRequest)
		default:
			jsonErr(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	jsonResp(w, answer)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonErr(w, "q is required", http.StatusBadRequest)
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := s.documents.Search(query, limit, r.URL.Query().Get("file_id"))
	if err != nil {
		jsonErr(w, "Search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResp(w, SearchResponse{Results: results, Count: len(results)})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/usage/")
	if sessionID == "" {
		jsonErr(w, "session_id is required", http.StatusBadRequest)
		return
	}

	// Always resolvable: unknown sessions get a fresh zero-usage record.
	jsonResp(w, s.quota.CheckLimit(sessionID))
}
