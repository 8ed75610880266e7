package models

import "time"

// Asset types known to the API. The mobile app only ever sends one of these.
const (
	AssetTypeCar   = "car"
	AssetTypeHouse = "house"
	AssetTypeOther = "other"
)

// KnownAssetType reports whether t is one of the supported asset types.
func KnownAssetType(t string) bool {
	switch t {
	case AssetTypeCar, AssetTypeHouse, AssetTypeOther:
		return true
	}
	return false
}

type Asset struct {
	ID         int       `json:"id"`
	OwnerID    int       `json:"owner_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Identifier string    `json:"identifier,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
