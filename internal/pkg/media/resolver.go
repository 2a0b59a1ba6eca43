package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

// ThumbsPrefix is the URL path and store prefix of rendered thumbnails.
const ThumbsPrefix = "/thumbs"

// Resolver turns the image reference of a photo into a thumbnail URL.
type Resolver struct {
	store   storage.Store
	baseURL string
	signer  *Signer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSigner signs every thumbnail URL with s.
func WithSigner(s *Signer) ResolverOption {
	return func(r *Resolver) {
		r.signer = s
	}
}

// NewResolver creates a resolver. baseURL (PUBLIC_DOMAIN) may be empty for
// site relative URLs.
func NewResolver(store storage.Store, baseURL string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Signer returns the signer the thumbnail handler has to verify with.
func (r *Resolver) Signer() *Signer {
	if r == nil {
		return nil
	}
	return r.signer
}

// Resolve returns the URL of a width x height thumbnail of photo, or "" when
// the photo is nil, has no image or the image is missing from the store.
func (r *Resolver) Resolve(ctx context.Context, photo *models.Photo, width, height int, mode string) string {
	if r == nil || !photo.HasImage() {
		return ""
	}

	key := photo.Image()
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		log.Warnf("[Media] Could not check asset %s: %v", key, err)
		return ""
	}
	if !exists {
		log.Debugf("[Media] Asset %s of photo %d is missing", key, photo.ID)
		return ""
	}

	w, h := imageprocessor.NormalizeSize(width, height)
	m := imageprocessor.ParseMode(mode)
	u := r.baseURL + ThumbnailPath(key, w, h, m)
	if sig := r.signer.Sign(key, w, h, m); sig != "" {
		u += "?" + SignatureParam + "=" + sig
	}
	return u
}

// ThumbnailPath builds /thumbs/{w}x{h}/{mode}/{key}.
func ThumbnailPath(key string, width, height int, mode imageprocessor.Mode) string {
	return fmt.Sprintf("%s/%dx%d/%s/%s", ThumbsPrefix, width, height, mode, key)
}
