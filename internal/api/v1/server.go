package apiv1

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List albums, newest first
	// (GET /albums)
	ListAlbums(c *fiber.Ctx, params ListAlbumsParams) error
	// Get an album with its photos
	// (GET /albums/{id})
	GetAlbum(c *fiber.Ctx, id int) error
	// Random photos, each at most once
	// (GET /photos/random)
	GetRandomPhotos(c *fiber.Ctx, params GetRandomPhotosParams) error
	// Get a photo
	// (GET /photos/{id})
	GetPhoto(c *fiber.Ctx, id int) error
	// Replace photo tokens with image markup
	// (POST /markdown/parse)
	PostMarkdownParse(c *fiber.Ctx) error
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func badParam(name string, err error) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %v", name, err))
}

// queryInt binds an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badParam(name, err)
	}
	return &v, nil
}

// ListAlbums operation middleware
func (siw *ServerInterfaceWrapper) ListAlbums(c *fiber.Ctx) error {
	var params ListAlbumsParams
	var err error

	if params.Page, err = queryInt(c, "page"); err != nil {
		return err
	}
	if params.PerPage, err = queryInt(c, "per_page"); err != nil {
		return err
	}
	return siw.Handler.ListAlbums(c, params)
}

// GetAlbum operation middleware
func (siw *ServerInterfaceWrapper) GetAlbum(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return badParam("id", err)
	}
	return siw.Handler.GetAlbum(c, id)
}

// GetRandomPhotos operation middleware
func (siw *ServerInterfaceWrapper) GetRandomPhotos(c *fiber.Ctx) error {
	var params GetRandomPhotosParams
	var err error

	if params.Count, err = queryInt(c, "count"); err != nil {
		return err
	}
	return siw.Handler.GetRandomPhotos(c, params)
}

// GetPhoto operation middleware
func (siw *ServerInterfaceWrapper) GetPhoto(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return badParam("id", err)
	}
	return siw.Handler.GetPhoto(c, id)
}

// PostMarkdownParse operation middleware
func (siw *ServerInterfaceWrapper) PostMarkdownParse(c *fiber.Ctx) error {
	return siw.Handler.PostMarkdownParse(c)
}

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []fiber.Handler
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	for _, m := range options.Middlewares {
		router.Use(m)
	}

	// /photos/random is registered before /photos/:id so it wins
	router.Get(options.BaseURL+"/albums", wrapper.ListAlbums)
	router.Get(options.BaseURL+"/albums/:id", wrapper.GetAlbum)
	router.Get(options.BaseURL+"/photos/random", wrapper.GetRandomPhotos)
	router.Get(options.BaseURL+"/photos/:id", wrapper.GetPhoto)
	router.Post(options.BaseURL+"/markdown/parse", wrapper.PostMarkdownParse)
}
