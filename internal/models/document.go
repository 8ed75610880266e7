package models

import "time"

// Document is a piece of paperwork attached to an asset. The file itself
// lives in external storage; we only keep the metadata and URL.
type Document struct {
	ID        int       `json:"id"`
	AssetID   int       `json:"asset_id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
