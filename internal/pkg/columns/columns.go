package columns

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/views/components"
)

// Column type names
const (
	TypeIsFront = "is_front"
	TypeImage   = "image"
)

// Record is a list row.
type Record interface {
	GetID() uint
}

// Config is the per-column configuration of a list definition.
type Config struct {
	Width  int
	Height int
}

// Renderer renders one cell from the column value, its config and the row.
type Renderer func(ctx context.Context, value any, cfg Config, record Record) string

// IsFront renders "Yes" when value, the album's front photo id, equals the
// record's id. Nil and zero values never match.
func IsFront(value any, record Record) string {
	if record == nil {
		return ""
	}
	id, ok := toID(value)
	if !ok || id == 0 {
		return ""
	}
	if id == record.GetID() {
		return "Yes"
	}
	return ""
}

func toID(value any) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, true
	case *uint:
		if v == nil {
			return 0, false
		}
		return *v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	default:
		return 0, false
	}
}

// Image renders an <img> tag with the photo's thumbnail, sized by cfg and
// defaulting to 200x200 auto. Rows without an image get src="".
func Image(ctx context.Context, cfg Config, photo *models.Photo, resolver *media.Resolver) string {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = imageprocessor.DefaultThumbnailSize
	}
	if height <= 0 {
		height = imageprocessor.DefaultThumbnailSize
	}

	src := resolver.Resolve(ctx, photo, width, height, string(imageprocessor.ModeAuto))
	html, err := components.RenderString(ctx, components.Thumbnail(src))
	if err != nil {
		log.Errorf("[Columns] Failed to render image column: %v", err)
		return ""
	}
	return html
}

// Types returns the registered column types.
func Types(resolver *media.Resolver) map[string]Renderer {
	return map[string]Renderer{
		TypeIsFront: func(ctx context.Context, value any, cfg Config, record Record) string {
			return IsFront(value, record)
		},
		TypeImage: func(ctx context.Context, value any, cfg Config, record Record) string {
			photo, _ := record.(*models.Photo)
			return Image(ctx, cfg, photo, resolver)
		},
	}
}
