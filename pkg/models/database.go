package models

import "time"

// ArchiveVersion is the current library archive format.
const ArchiveVersion = 1

// Archive is the payload of a library export.
type Archive struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Sheets     []Sheet   `json:"sheets"`
}
