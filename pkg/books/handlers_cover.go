package books

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

// uploadCover accepts a multipart image upload, verifies it really is an
// image, and stores it under a random filename so uploads can't collide or
// clobber each other.
func (h *handler) uploadCover(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errcodes.ValidationError(`"file" is required`)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, allowedExt := range h.cfg.CoverAllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		return errcodes.ValidationError("\"file\" must be one of the following types: " + strings.Join(h.cfg.CoverAllowedExtensions, ", "))
	}

	if fileHeader.Size > h.cfg.CoverMaxSizeBytes {
		return errcodes.ValidationError(`"file" exceeds the maximum allowed size`)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.cfg.CoverMaxSizeBytes+1))
	if err != nil {
		return errors.WithStack(err)
	}
	if int64(len(data)) > h.cfg.CoverMaxSizeBytes {
		return errcodes.ValidationError(`"file" exceeds the maximum allowed size`)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return errcodes.ValidationError(`"file" is not an image`)
	}

	filename := uuid.NewString() + ext
	if err := os.MkdirAll(h.cfg.CoverUploadDir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(filepath.Join(h.cfg.CoverUploadDir, filename), data, 0o644); err != nil {
		return errors.WithStack(err)
	}

	cover := &models.BookCover{
		BookID:   book.ID,
		Filename: filename,
	}
	if err := h.bookService.CreateCover(ctx, cover); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, cover))
}

// serveCover streams a previously uploaded cover image. The filename is
// looked up in the database first so arbitrary paths can't be requested.
func (h *handler) serveCover(c echo.Context) error {
	ctx := c.Request().Context()

	filename := filepath.Base(c.Param("filename"))
	cover, err := h.bookService.RetrieveCoverByFilename(ctx, filename)
	if err != nil {
		return errors.WithStack(err)
	}

	path := filepath.Join(h.cfg.CoverUploadDir, cover.Filename)
	if _, err := os.Stat(path); err != nil {
		return errcodes.NotFound("Cover")
	}

	return errors.WithStack(c.File(path))
}
