package models

import "time"

// FileMetadata describes the decoded file itself. It is present in every
// ParseResult, including failed ones.
type FileMetadata struct {
	FileName        string     `json:"fileName"`
	Format          string     `json:"format"` // human-readable label, e.g. "Lowrance SL2 Sonar Log"
	ByteSize        int64      `json:"byteSize"`
	Device          Device     `json:"device"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	SoftwareVersion string     `json:"softwareVersion,omitempty"`
}
