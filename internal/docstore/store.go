// Package docstore persists the extracted text of processed PDFs, keyed
// by file ID, and keeps a bleve index over their pages for keyword search.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a file ID has no stored document.
var ErrNotFound = errors.New("document not found")

// Document is the stored extraction result for one processed PDF.
type Document struct {
	FileID    string    `json:"file_id"`
	Name      string    `json:"name"`
	Pages     []string  `json:"pages"`
	PageCount int       `json:"page_count"` // total pages in the original PDF
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is one ranked page hit.
type SearchResult struct {
	FileID  string  `json:"file_id"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Store holds documents as JSON on disk plus a page-level bleve index.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]*Document
	dataDir  string
	filePath string
	index    bleve.Index
}

// NewStore opens (or creates) the store under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	indexPath := filepath.Join(dataDir, "pages.bleve")
	var index bleve.Index
	var err error
	if _, statErr := os.Stat(indexPath); os.IsNotExist(statErr) {
		index, err = bleve.New(indexPath, bleve.NewIndexMapping())
	} else {
		index, err = bleve.Open(indexPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page index: %w", err)
	}

	s := &Store{
		docs:     make(map[string]*Document),
		dataDir:  dataDir,
		filePath: filepath.Join(dataDir, "documents.json"),
		index:    index,
	}

	if data, err := os.ReadFile(s.filePath); err == nil {
		var docs []*Document
		if err := json.Unmarshal(data, &docs); err == nil {
			for _, d := range docs {
				s.docs[d.FileID] = d
			}
		}
	}

	return s, nil
}

func (s *Store) save() error {
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// Put stores the extracted pages of a processed PDF under a fresh file ID
// and indexes each non-empty page.
func (s *Store) Put(name string, pages []string, pageCount int) (*Document, error) {
	doc := &Document{
		FileID:    uuid.NewString(),
		Name:      name,
		Pages:     pages,
		PageCount: pageCount,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Index before persisting so a failure on either step leaves no
	// partial document behind.
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		id := pageID(doc.FileID, i+1)
		if err := s.index.Index(id, map[string]interface{}{
			"file_id": doc.FileID,
			"page":    i + 1,
			"text":    text,
		}); err != nil {
			s.unindexPages(doc.FileID, i)
			return nil, fmt.Errorf("failed to index page %d: %w", i+1, err)
		}
	}

	s.docs[doc.FileID] = doc
	if err := s.save(); err != nil {
		delete(s.docs, doc.FileID)
		s.unindexPages(doc.FileID, len(pages))
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	return doc, nil
}

// unindexPages removes pages 1..n of fileID from the index, best-effort.
func (s *Store) unindexPages(fileID string, n int) {
	for i := 1; i <= n; i++ {
		_ = s.index.Delete(pageID(fileID, i))
	}
}

// Get returns the stored document for fileID, or ErrNotFound.
func (s *Store) Get(fileID string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// FullText returns the whole extracted text for fileID, pages joined in
// order and trimmed.
func (s *Store) FullText(fileID string) (string, error) {
	doc, err := s.Get(fileID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(doc.Pages, "\n")), nil
}

// Search ranks stored pages against a keyword query. When fileID is
// non-empty, hits from other documents are filtered out.
func (s *Store) Search(query string, topK int, fileID string) ([]SearchResult, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = topK * 3 // extra candidates survive the file filter
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("page search failed: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []SearchResult
	for _, hit := range res.Hits {
		hitFile, page, ok := parsePageID(hit.ID)
		if !ok {
			continue
		}
		if fileID != "" && hitFile != fileID {
			continue
		}
		results = append(results, SearchResult{
			FileID:  hitFile,
			Page:    page,
			Score:   hit.Score,
			Snippet: s.snippet(hitFile, page),
		})
		if len(results) == topK {
			break
		}
	}
	return results, nil
}

// snippet returns the first part of a stored page. Callers hold s.mu.
func (s *Store) snippet(fileID string, page int) string {
	doc, ok := s.docs[fileID]
	if !ok || page < 1 || page > len(doc.Pages) {
		return ""
	}
	text := strings.TrimSpace(doc.Pages[page-1])
	const max = 200 // characters, not bytes
	if utf8.RuneCountInString(text) > max {
		return string([]rune(text)[:max]) + "..."
	}
	return text
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close releases the underlying index.
func (s *Store) Close() error {
	return s.index.Close()
}

func pageID(fileID string, page int) string {
	return fmt.Sprintf("%s_p%d", fileID, page)
}

func parsePageID(id string) (fileID string, page int, ok bool) {
	i := strings.LastIndex(id, "_p")
	if i < 0 {
		return "", 0, false
	}
	page, err := strconv.Atoi(id[i+2:])
	if err != nil {
		return "", 0, false
	}
	return id[:i], page, true
}
