package showcase

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	showcaseService *Service
}

type showcaseBook struct {
	Position  int      `json:"position"`
	BookID    int      `json:"book_id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	CoverURLs []string `json:"cover_urls"`
}

func buildShowcaseResponse(entries []*models.ShowcaseEntry) []showcaseBook {
	out := make([]showcaseBook, 0, len(entries))
	for _, entry := range entries {
		book := showcaseBook{
			Position:  entry.Position,
			BookID:    entry.BookID,
			Authors:   []string{},
			CoverURLs: []string{},
		}
		if entry.Book != nil {
			book.Title = entry.Book.Title
			for _, author := range entry.Book.Authors {
				book.Authors = append(book.Authors, author.Name)
			}
			book.CoverURLs = entry.Book.CoverURLs()
		}
		out = append(out, book)
	}
	return out
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.showcaseService.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildShowcaseResponse(entries)))
}

func (h *handler) set(c echo.Context) error {
	ctx := c.Request().Context()

	params := SetShowcasePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entries, err := h.showcaseService.Set(ctx, params.BookIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildShowcaseResponse(entries)))
}
