package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gpdf/internal/artifact"
	"gpdf/internal/converter"
	"gpdf/internal/docstore"
	"gpdf/internal/qa"
	"gpdf/internal/quota"
	"gpdf/internal/summarizer"
)

const apiVersion = "1.0.0"

// Server holds all shared state.
type Server struct {
	cfg        Config
	quota      *quota.Tracker
	summarizer *summarizer.Summarizer
	qa         *qa.Engine
	converter  *converter.Converter
	documents  *docstore.Store
	artifacts  *artifact.Store
}

// ----- Response types -----

type SummarizeResponse struct {
	Summary        string  `json:"summary"`
	PageCount      int     `json:"page_count"` // pages actually summarized
	PDFFileID      string  `json:"pdf_file_id,omitempty"`
	UsageRemaining int     `json:"usage_remaining"`
	ProcessingTime float64 `json:"processing_time"`
}

type ConvertResponse struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	FileSize    int    `json:"file_size"`
}

type QARequest struct {
	Question string `json:"question"`
	FileID   string `json:"file_id"`
}

type SearchResponse struct {
	Results []docstore.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}

// ========== Middleware ==========

// corsMiddleware admits only the configured caller origins. Entries may
// end in "*" to match a scheme prefix (browser extensions get per-install
// origins).
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if strings.HasSuffix(allowed, "*") && strings.HasPrefix(origin, strings.TrimSuffix(allowed, "*")) {
			return true
		}
	}
	return false
}

// ========== Helpers ==========

func jsonResp(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ========== Service Endpoints ==========

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	jsonResp(w, map[string]string{
		"message": "GPdf API Server",
		"version": apiVersion,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, map[string]string{"status": "healthy", "time": time.Now().Format(time.RFC3339)})
}
