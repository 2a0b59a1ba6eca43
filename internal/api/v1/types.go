package apiv1

import "time"

// Error is the body of every error response.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Photo struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileName    string     `json:"file_name,omitempty"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	CameraModel *string    `json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	Thumbnail   string     `json:"thumbnail"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Album struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	FrontPhotoID *uint     `json:"front_photo_id"`
	Thumbnail    string    `json:"thumbnail"`
	URL          string    `json:"url"`
	Photos       []Photo   `json:"photos,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type AlbumList struct {
	Items      []Album `json:"items"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

type PhotoList struct {
	Items []Photo `json:"items"`
}

type MarkdownRequest struct {
	Text string `json:"text"`
}

type MarkdownResponse struct {
	HTML string `json:"html"`
}

// ListAlbumsParams defines parameters for ListAlbums.
type ListAlbumsParams struct {
	Page    *int
	PerPage *int
}

// GetRandomPhotosParams defines parameters for GetRandomPhotos.
type GetRandomPhotosParams struct {
	Count *int
}
