package domain

// Cover represents a deduplicated cover image record.
//
// ContentHash is unique across all covers: at most one row exists per distinct
// byte content. Key is the storage key under which the raw bytes live in the
// blob store; it derives from the cover ID, not from the hash, so storage keys
// stay stable while lookup remains content-addressed.
type Cover struct {
	Entity
	Key         string `json:"key"`
	MimeType    string `json:"mime_type"`
	ContentHash string `json:"content_hash"`
	BlurHash    string `json:"blur_hash,omitempty"`
}
