package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

// ThumbnailHandler serves GET /thumbs/:size/:mode/*. Thumbnails are rendered
// on first request and kept in the store next to the other thumbnails of
// the same original. With a signer, unsigned variants are refused.
type ThumbnailHandler struct {
	store  storage.Store
	signer *Signer
}

func NewThumbnailHandler(store storage.Store, signer *Signer) *ThumbnailHandler {
	return &ThumbnailHandler{store: store, signer: signer}
}

// ParseSize parses "WxH".
func ParseSize(size string) (int, int, error) {
	wStr, hStr, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q", size)
	}
	w, err := strconv.Atoi(wStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", wStr)
	}
	h, err := strconv.Atoi(hStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", hStr)
	}
	return w, h, nil
}

// cacheKey is the store key of a rendered thumbnail.
func cacheKey(key string, w, h int, mode imageprocessor.Mode, format imageprocessor.Format) string {
	return fmt.Sprintf("%s%dx%d-%s%s", storage.ThumbnailPrefix(key), w, h, mode, format.Extension())
}

func (h *ThumbnailHandler) Handle(c *fiber.Ctx) error {
	w, ht, err := ParseSize(c.Params("size"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	w, ht = imageprocessor.NormalizeSize(w, ht)
	mode := imageprocessor.ParseMode(c.Params("mode"))

	key, err := storage.CleanKey(c.Params("*"))
	if err != nil || strings.HasPrefix(key, "thumbs/") {
		return fiber.ErrNotFound
	}
	if !h.signer.Verify(key, w, ht, mode, c.Query(SignatureParam)) {
		return fiber.ErrForbidden
	}

	ctx := c.UserContext()
	format := imageprocessor.NegotiateFormat(c.Get(fiber.HeaderAccept), key)
	thumbKey := cacheKey(key, w, ht, mode, format)

	c.Vary(fiber.HeaderAccept)

	if rc, err := h.store.Open(ctx, thumbKey); err == nil {
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		return h.send(c, data, format)
	}

	src, err := h.store.Open(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := imageprocessor.RenderThumbnail(src, w, ht, mode, format)
	if err != nil {
		log.Errorf("[Media] Failed to render thumbnail of %s: %v", key, err)
		return fiber.ErrUnprocessableEntity
	}

	if err := h.store.Save(ctx, thumbKey, bytes.NewReader(data), int64(len(data)), format.ContentType()); err != nil {
		log.Warnf("[Media] Failed to cache thumbnail %s: %v", thumbKey, err)
	}
	return h.send(c, data, format)
}

func (h *ThumbnailHandler) send(c *fiber.Ctx, data []byte, format imageprocessor.Format) error {
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
