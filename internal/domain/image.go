package domain

import "time"

const (
	ImageVariantOriginal  = "original"
	ImageVariantThumbnail = "thumbnail"
)

type Image struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	ContentType  string    `json:"content_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	OriginalKey  string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// StorageKey devuelve la clave de almacenamiento de la variante pedida.
func (i Image) StorageKey(variant string) string {
	if variant == ImageVariantThumbnail {
		return i.ThumbnailKey
	}
	return i.OriginalKey
}
