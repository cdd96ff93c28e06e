package models

import (
	"fmt"
	"regexp"
	"time"
)

// AttachmentRecord is metadata for one uploaded file bound to a JobRecord.
// A record only exists after the corresponding blob upload succeeded.
type AttachmentRecord struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	OwnerID     string    `json:"owner_id"`
	StoragePath string    `json:"storage_path"`
	FileName    string    `json:"file_name"`
	MimeType    string    `json:"mime_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFileName collapses whitespace runs to underscores so the name is
// safe to embed in a storage path.
func SanitizeFileName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_")
}

// AttachmentStoragePath derives the blob key for an upload. The timestamp
// component makes repeated uploads of the same file name collision-free.
func AttachmentStoragePath(ownerID, jobID string, now time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d/%s", ownerID, jobID, now.Unix(), SanitizeFileName(fileName))
}
