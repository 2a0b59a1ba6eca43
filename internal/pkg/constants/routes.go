package constants

// Admin routes
const (
	AdminRoute        = "/admin/photoalbums"
	AdminAlbumsRoute  = AdminRoute + "/albums"
	AdminPhotosRoute  = AdminRoute + "/photos"
	AdminUploadRoute  = AdminRoute + "/upload/form"
	AdminAlbumsCreate = AdminAlbumsRoute + "/create"
	AdminPhotosCreate = AdminPhotosRoute + "/create"
)

// Public routes
const (
	PublicRoute       = "/"
	AlbumListRoute    = "/albums"
	AlbumRoute        = "/album"
	PhotoRoute        = "/photo"
	RandomPhotosRoute = "/photos/random"
	ThumbsRoute       = "/thumbs"
	DocsRoute         = "/docs/api"
	APIRoute          = "/api/v1"
)
