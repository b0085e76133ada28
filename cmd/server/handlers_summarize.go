package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"gpdf/internal/extractor"
	"gpdf/internal/llm"
	"gpdf/internal/summarizer"
)

// handleSummarize runs the full pipeline: quota precheck, upload
// validation, bounded extraction, summarization, document storage, and
// finally the quota increment (only a completed summary consumes quota).
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	if err := r.ParseMultipartForm(s.cfg.MaxFileSize + 1<<20); err != nil {
		jsonErr(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		jsonErr(w, "session_id is required", http.StatusBadRequest)
		return
	}

	// Free precheck; the increment happens after the summary succeeds.
	if s.quota.CheckLimit(sessionID).Remaining <= 0 {
		jsonErr(w, "Daily usage limit reached. Please try again tomorrow.", http.StatusTooManyRequests)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonErr(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		jsonErr(w, "Only PDF files can be uploaded.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		jsonErr(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		jsonErr(w, fmt.Sprintf("File exceeds the %dMB size limit.", s.cfg.MaxFileSize/(1024*1024)),
			http.StatusRequestEntityTooLarge)
		return
	}

	if !extractor.Validate(data) {
		jsonErr(w, "Invalid PDF file.", http.StatusBadRequest)
		return
	}

	text, err := extractor.ExtractText(data, s.cfg.MaxPages)
	if err != nil {
		jsonErr(w, "Failed to extract text: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if text == "" {
		jsonErr(w, "No extractable text in this PDF. It may be image-based or protected.", http.StatusBadRequest)
		return
	}

	log.Printf("Summarize %s: ~%d input tokens, est. cost $%.4f",
		header.Filename, llm.EstimateTokens(text), llm.EstimateCost(text, summarizer.MaxOutputTokens))

	summary, err := s.summarizer.Summarize(r.Context(), text)
	if err != nil {
		jsonErr(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Total page count is best-effort: a failed count degrades the
	// reported number, never the request.
	totalPages, err := extractor.PageCount(data)
	if err != nil {
		log.Printf("Page count unavailable for %s: %v", header.Filename, err)
		totalPages = 0
	}

	// Store the full text so follow-up questions can reference it.
	fileID := ""
	if pages, err := extractor.ExtractPages(data, totalPages); err == nil && len(pages) > 0 {
		if doc, err := s.documents.Put(header.Filename, pages, totalPages); err == nil {
			fileID = doc.FileID
		} else {
			log.Printf("Failed to store document %s: %v", header.Filename, err)
		}
	}

	s.quota.IncrementUsage(sessionID)
	usage := s.quota.CheckLimit(sessionID)

	processed := totalPages
	if s.cfg.MaxPages < processed {
		processed = s.cfg.MaxPages
	}

	jsonResp(w, SummarizeResponse{
		Summary:        summary,
		PageCount:      processed,
		PDFFileID:      fileID,
		UsageRemaining: usage.Remaining,
		ProcessingTime: time.Since(start).Seconds(),
	})
}
