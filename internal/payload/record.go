// Package payload encodes small JSON records into URL-fragment-safe strings and back.
package payload

// KeyURL is the record key holding the destination URL or URI.
const KeyURL = "u"

// Record is the structured payload carried in a link fragment.
type Record map[string]any

// NewRecord creates a record pointing at the given destination.
func NewRecord(url string) Record {
	return Record{KeyURL: url}
}

// URL returns the destination stored in the record, or "" when absent or not a string.
func (r Record) URL() string {
	u, _ := r[KeyURL].(string)

	return u
}
