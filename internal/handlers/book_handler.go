package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/books"
	"github.com/andrewjordancampbell/TurnTogether/internal/cache"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
)

type BookHandler struct {
	catalog     *books.Client
	searchCache *cache.SearchCache
}

func NewBookHandler(catalog *books.Client, searchCache *cache.SearchCache) *BookHandler {
	return &BookHandler{catalog: catalog, searchCache: searchCache}
}

// Search proxies the catalog search. Results are cached briefly; a
// catalog outage reads as zero results, never as a failed page.
func (h *BookHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return httpx.BadRequest(c, "missing_query", "q parameter is required")
	}

	if results, ok := h.searchCache.Get(query); ok {
		return c.JSON(fiber.Map{"results": results})
	}

	results, err := h.catalog.Search(c.Context(), query, books.DefaultLimit)
	if err != nil {
		return httpx.Internal(c, "search_failed")
	}

	if err := h.searchCache.Set(query, results); err != nil {
		log.Printf("Failed to cache search results for %q: %v", query, err)
	}

	return c.JSON(fiber.Map{"results": results})
}
