package apiv1

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/app/controllers"
	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/markdown"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
)

const (
	defaultRandomCount = 5
	maxRandomCount     = 50
)

// APIServer implements the ServerInterface
type APIServer struct {
	svc      *services.Service
	resolver *media.Resolver
	events   *events.Dispatcher
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *services.Service, resolver *media.Resolver, d *events.Dispatcher) *APIServer {
	return &APIServer{svc: svc, resolver: resolver, events: d}
}

func (s *APIServer) photo(ctx context.Context, p *models.Photo) Photo {
	return Photo{
		ID:          p.ID,
		UUID:        p.UUID,
		Title:       p.Title,
		Description: p.Description,
		FileName:    p.FileName,
		Width:       p.Width,
		Height:      p.Height,
		CameraModel: p.CameraModel,
		TakenAt:     p.TakenAt,
		Thumbnail:   s.resolver.Resolve(ctx, p, imageprocessor.DefaultThumbnailSize, imageprocessor.DefaultThumbnailSize, string(imageprocessor.ModeAuto)),
		URL:         fmt.Sprintf("%s/%d", constants.PhotoRoute, p.ID),
		CreatedAt:   p.CreatedAt,
	}
}

func (s *APIServer) album(ctx context.Context, a *models.Album) Album {
	return Album{
		ID:           a.ID,
		Title:        a.Title,
		Slug:         a.Slug,
		Description:  a.Description,
		FrontPhotoID: a.FrontPhotoID,
		Thumbnail:    s.resolver.Resolve(ctx, a.FrontPhoto, imageprocessor.DefaultThumbnailSize, imageprocessor.DefaultThumbnailSize, string(imageprocessor.ModeCrop)),
		URL:          constants.AlbumRoute + "/" + a.Slug,
		CreatedAt:    a.CreatedAt,
	}
}

// ListAlbums returns one page of albums.
func (s *APIServer) ListAlbums(c *fiber.Ctx, params ListAlbumsParams) error {
	page, perPage := 1, services.DefaultPerPage
	if params.Page != nil {
		page = *params.Page
	}
	if params.PerPage != nil {
		perPage = *params.PerPage
	}

	result, err := s.svc.ListAlbums(page, perPage)
	if err != nil {
		return controllers.APIError(c, err)
	}

	resp := AlbumList{
		Items:      make([]Album, 0, len(result.Items)),
		Page:       result.Page,
		PerPage:    result.PerPage,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
	for i := range result.Items {
		resp.Items = append(resp.Items, s.album(c.UserContext(), &result.Items[i]))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetAlbum returns an album with its photos in stored order.
func (s *APIServer) GetAlbum(c *fiber.Ctx, id int) error {
	if id <= 0 {
		return controllers.APIError(c, fmt.Errorf("album: %w", services.ErrNotFound))
	}
	album, err := s.svc.GetAlbum(uint(id))
	if err != nil {
		return controllers.APIError(c, err)
	}
	photos, err := s.svc.AlbumPhotos(album.ID)
	if err != nil {
		return controllers.APIError(c, err)
	}

	resp := s.album(c.UserContext(), album)
	resp.Photos = make([]Photo, 0, len(photos))
	for i := range photos {
		resp.Photos = append(resp.Photos, s.photo(c.UserContext(), &photos[i]))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetPhoto returns a single photo.
func (s *APIServer) GetPhoto(c *fiber.Ctx, id int) error {
	if id <= 0 {
		return controllers.APIError(c, fmt.Errorf("photo: %w", services.ErrNotFound))
	}
	photo, err := s.svc.GetPhoto(uint(id))
	if err != nil {
		return controllers.APIError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s.photo(c.UserContext(), photo))
}

// GetRandomPhotos samples up to count photos without repetition.
func (s *APIServer) GetRandomPhotos(c *fiber.Ctx, params GetRandomPhotosParams) error {
	count := defaultRandomCount
	if params.Count != nil {
		count = min(*params.Count, maxRandomCount)
	}

	photos, err := s.svc.RandomPhotos(count)
	if err != nil {
		return controllers.APIError(c, err)
	}

	resp := PhotoList{Items: []Photo{}}
	for photo := range photos {
		resp.Items = append(resp.Items, s.photo(c.UserContext(), photo))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// PostMarkdownParse runs the markdown.parse hook over the posted text.
func (s *APIServer) PostMarkdownParse(c *fiber.Ctx) error {
	var req MarkdownRequest
	if err := c.BodyParser(&req); err != nil {
		return controllers.APIError(c, services.NewValidationError("", "invalid request body"))
	}
	if req.Text == "" {
		return controllers.APIError(c, services.NewValidationError("text", "is required"))
	}

	out, err := markdown.Parse(c.UserContext(), s.events, req.Text)
	if err != nil {
		return controllers.APIError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MarkdownResponse{HTML: out})
}
