package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"
	DefaultLimit     = 10
)

// SearchResult is one catalog hit, trimmed to the fields the app stores.
type SearchResult struct {
	OpenLibraryKey   string  `json:"open_library_key" msgpack:"open_library_key"`
	Title            string  `json:"title" msgpack:"title"`
	AuthorName       string  `json:"author_name" msgpack:"author_name"`
	CoverURL         *string `json:"cover_url" msgpack:"cover_url"`
	FirstPublishYear *int    `json:"first_publish_year" msgpack:"first_publish_year"`
	ISBN             *string `json:"isbn" msgpack:"isbn"`
	PageCount        *int    `json:"page_count" msgpack:"page_count"`
}

// Client searches the Open Library catalog. Upstream failures are
// treated as "no results": callers never see a page-level error because
// the book search was down.
type Client struct {
	baseURL   string
	coversURL string
	userAgent string
	http      *http.Client
}

func NewClient() *Client {
	baseURL := os.Getenv("OPENLIBRARY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		coversURL: defaultCoversURL,
		userAgent: "TurnTogether (turntogether@example.com)",
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	CoverI              *int     `json:"cover_i"`
	FirstPublishYear    *int     `json:"first_publish_year"`
	ISBN                []string `json:"isbn"`
	NumberOfPagesMedian *int     `json:"number_of_pages_median"`
}

// Search returns up to limit results for a free-text query. An empty
// query, a non-200 response, or a transport error all yield an empty
// slice and a nil error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("fields", "key,title,author_name,cover_i,first_publish_year,isbn,number_of_pages_median")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return []SearchResult{}, nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return []SearchResult{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []SearchResult{}, nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		results = append(results, c.toResult(doc))
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (c *Client) toResult(doc searchDoc) SearchResult {
	result := SearchResult{
		OpenLibraryKey:   doc.Key,
		Title:            doc.Title,
		AuthorName:       "Unknown",
		FirstPublishYear: doc.FirstPublishYear,
		PageCount:        doc.NumberOfPagesMedian,
	}
	if len(doc.AuthorName) > 0 {
		result.AuthorName = doc.AuthorName[0]
	}
	if doc.CoverI != nil {
		coverURL := fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversURL, *doc.CoverI)
		result.CoverURL = &coverURL
	}
	if len(doc.ISBN) > 0 {
		isbn := doc.ISBN[0]
		result.ISBN = &isbn
	}
	return result
}
