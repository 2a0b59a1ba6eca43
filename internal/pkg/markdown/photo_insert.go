package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/views/components"
)

// EventParse is fired with a *ParseEvent before markdown is rendered.
const EventParse = "markdown.parse"

// Default size of an inserted photo when the token has none.
const (
	DefaultInsertWidth  = 640
	DefaultInsertHeight = 480
)

// ParseEvent carries the markdown source; listeners rewrite Text in place.
type ParseEvent struct {
	Text string
}

// PhotoFinder loads photos by id.
type PhotoFinder interface {
	GetPhoto(id uint) (*models.Photo, error)
}

// photoToken matches [photo:ID], [photo:ID:WxH] and [photo:ID:WxH:mode].
var photoToken = regexp.MustCompile(`\[photo:(\d+)(?::(\d+)x(\d+))?(?::([a-z]+))?\]`)

// PhotoInsert replaces photo tokens in markdown with <img> markup.
type PhotoInsert struct {
	photos   PhotoFinder
	resolver *media.Resolver
}

func NewPhotoInsert(photos PhotoFinder, resolver *media.Resolver) *PhotoInsert {
	return &PhotoInsert{photos: photos, resolver: resolver}
}

// Parse returns text with every photo token replaced. Tokens of unknown
// photos or photos without a stored image are removed.
func (p *PhotoInsert) Parse(ctx context.Context, text string) string {
	loaded := make(map[uint]*models.Photo)

	return photoToken.ReplaceAllStringFunc(text, func(token string) string {
		m := photoToken.FindStringSubmatch(token)
		id, err := strconv.ParseUint(m[1], 10, 0)
		if err != nil {
			return ""
		}

		photo, seen := loaded[uint(id)]
		if !seen {
			photo, err = p.photos.GetPhoto(uint(id))
			if err != nil {
				log.Debugf("[Markdown] Dropping token %s: %v", token, err)
				photo = nil
			}
			loaded[uint(id)] = photo
		}

		width, height := DefaultInsertWidth, DefaultInsertHeight
		if m[2] != "" {
			width, _ = strconv.Atoi(m[2])
			height, _ = strconv.Atoi(m[3])
		}
		width, height = imageprocessor.NormalizeSize(width, height)
		mode := imageprocessor.ParseMode(m[4])

		src := p.resolver.Resolve(ctx, photo, width, height, string(mode))
		if src == "" {
			return ""
		}

		// auto keeps the aspect ratio, the box size is only an upper bound
		attrW, attrH := width, height
		if mode == imageprocessor.ModeAuto {
			attrW, attrH = 0, 0
		}
		html, err := components.RenderString(ctx, components.PhotoInsert(src, photo.DisplayTitle(), attrW, attrH))
		if err != nil {
			log.Errorf("[Markdown] Failed to render photo %d: %v", photo.ID, err)
			return ""
		}
		return html
	})
}

// Listener adapts Parse to the markdown.parse event.
func (p *PhotoInsert) Listener() events.Listener {
	return func(ctx context.Context, payload any) error {
		ev, ok := payload.(*ParseEvent)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", EventParse, payload)
		}
		ev.Text = p.Parse(ctx, ev.Text)
		return nil
	}
}

// Parse fires markdown.parse on d and returns the rewritten text.
func Parse(ctx context.Context, d *events.Dispatcher, text string) (string, error) {
	ev := &ParseEvent{Text: text}
	if err := d.Dispatch(ctx, EventParse, ev); err != nil {
		return text, err
	}
	return ev.Text, nil
}
