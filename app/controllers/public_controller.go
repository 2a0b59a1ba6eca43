package controllers

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/markdown"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/views/components"
)

const (
	DefaultRandomPhotos = 5
	MaxRandomPhotos     = 50
	albumsPerPage       = 12
)

// PublicController renders the public components: a single photo, an album
// gallery, the album list and the random photos widget.
type PublicController struct {
	svc      *services.Service
	resolver *media.Resolver
	events   *events.Dispatcher
}

func NewPublicController(svc *services.Service, resolver *media.Resolver, d *events.Dispatcher) *PublicController {
	return &PublicController{svc: svc, resolver: resolver, events: d}
}

type albumCard struct {
	Title string
	URL   string
	Thumb string
}

type galleryItem struct {
	Title   string
	URL     string
	Thumb   string
	IsFront bool
}

func albumURL(album *models.Album) string {
	return constants.AlbumRoute + "/" + url.PathEscape(album.Slug)
}

func photoURL(photo *models.Photo, album *models.Album) string {
	u := fmt.Sprintf("%s/%d", constants.PhotoRoute, photo.ID)
	if album != nil {
		u += "?album=" + url.QueryEscape(album.Slug)
	}
	return u
}

// description escapes text and runs it through the markdown hook.
func (pc *PublicController) description(ctx context.Context, text string) template.HTML {
	if text == "" {
		return ""
	}
	out, err := markdown.Parse(ctx, pc.events, html.EscapeString(text))
	if err != nil {
		log.Warnf("[Markdown] Failed to parse description: %v", err)
	}
	return template.HTML(strings.ReplaceAll(out, "\n", "<br>\n"))
}

// HandleAlbumList renders the paginated album list with a front photo
// thumbnail per album. Albums without a front photo get an empty thumbnail.
func (pc *PublicController) HandleAlbumList(c *fiber.Ctx) error {
	page, err := pc.svc.ListAlbums(c.QueryInt("page", 1), albumsPerPage)
	if err != nil {
		return err
	}

	cards := make([]albumCard, 0, len(page.Items))
	for i := range page.Items {
		album := &page.Items[i]
		cards = append(cards, albumCard{
			Title: album.Title,
			URL:   albumURL(album),
			Thumb: pc.resolver.Resolve(c.UserContext(), album.FrontPhoto, 300, 200, string(imageprocessor.ModeCrop)),
		})
	}

	return c.Render("public/albums", fiber.Map{
		"Title":   "Albums",
		"Page":    page,
		"Cards":   cards,
		"BaseURL": constants.AlbumListRoute,
	}, "layouts/public")
}

// HandleAlbum renders the gallery of one album with its front photo marked.
func (pc *PublicController) HandleAlbum(c *fiber.Ctx) error {
	album, err := pc.svc.GetAlbumBySlug(c.Params("slug"))
	if err != nil {
		return err
	}
	photos, err := pc.svc.AlbumPhotos(album.ID)
	if err != nil {
		return err
	}

	items := make([]galleryItem, 0, len(photos))
	for i := range photos {
		photo := &photos[i]
		items = append(items, galleryItem{
			Title:   photo.DisplayTitle(),
			URL:     photoURL(photo, album),
			Thumb:   pc.resolver.Resolve(c.UserContext(), photo, 300, 300, string(imageprocessor.ModeCrop)),
			IsFront: pc.svc.IsFront(photo, album),
		})
	}

	return c.Render("public/album", fiber.Map{
		"Title":       album.Title,
		"Album":       album,
		"Description": pc.description(c.UserContext(), album.Description),
		"Photos":      items,
	}, "layouts/public")
}

// HandlePhoto renders a single photo. ?album=slug adds a link back to the gallery.
func (pc *PublicController) HandlePhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fiber.ErrNotFound
	}
	photo, err := pc.svc.GetPhoto(id)
	if err != nil {
		return err
	}

	var album *models.Album
	if slug := c.Query("album"); slug != "" {
		album, _ = pc.svc.GetAlbumBySlug(slug)
	}

	return c.Render("public/photo", fiber.Map{
		"Title":       photo.DisplayTitle(),
		"Photo":       photo,
		"Image":       pc.resolver.Resolve(c.UserContext(), photo, 1024, 768, string(imageprocessor.ModeAuto)),
		"Description": pc.description(c.UserContext(), photo.Description),
		"Album":       album,
	}, "layouts/public")
}

// HandleRandomPhotos renders the random photos widget as an HTML fragment.
func (pc *PublicController) HandleRandomPhotos(c *fiber.Ctx) error {
	count := min(c.QueryInt("count", DefaultRandomPhotos), MaxRandomPhotos)

	photos, err := pc.svc.RandomPhotos(count)
	if err != nil {
		return err
	}

	var cards []components.PhotoCard
	for photo := range photos {
		cards = append(cards, components.PhotoCard{
			ID:    photo.ID,
			Title: photo.DisplayTitle(),
			Thumb: pc.resolver.Resolve(c.UserContext(), photo, 200, 200, string(imageprocessor.ModeCrop)),
			URL:   photoURL(photo, nil),
		})
	}

	handler := adaptor.HTTPHandler(templ.Handler(components.RandomPhotos(cards)))
	return handler(c)
}
