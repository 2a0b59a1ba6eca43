package services

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/PhotoAlbums/app/repository"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	// DefaultUploadWorkers bounds concurrent file processing per upload request.
	DefaultUploadWorkers = 4
)

// Service implements the album and photo operations on top of the repositories
// and the asset store.
type Service struct {
	repos         *repository.Repositories
	store         storage.Store
	uploadWorkers int
}

// Option configures a Service.
type Option func(*Service)

// WithUploadWorkers sets the size of the upload worker pool.
func WithUploadWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.uploadWorkers = n
		}
	}
}

// NewService creates a service from injected repositories and asset store.
func NewService(repos *repository.Repositories, store storage.Store, opts ...Option) *Service {
	s := &Service{
		repos:         repos,
		store:         store,
		uploadWorkers: DefaultUploadWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromDB creates a service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, store storage.Store, opts ...Option) *Service {
	return NewService(repository.NewFactory(db).GetRepositories(), store, opts...)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p *Page[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p *Page[T]) PrevPage() int {
	return p.Page - 1
}

func (p *Page[T]) NextPage() int {
	return p.Page + 1
}

// normalizePage clamps page and perPage and returns the row offset.
func normalizePage(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, (page - 1) * perPage
}

func newPage[T any](items []T, page, perPage int, total int64) *Page[T] {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
