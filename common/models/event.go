package models

// Change event names, matching the metadata store's stream records
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
)

// Change event subjects
const (
	KindImage        = "image"
	KindSubscription = "subscription"
)

// ChangeEvent describes one tag-set change observed on the metadata store.
// For subscription events ID is the subscriber's endpoint; for image events
// it is the record id. OldTags is empty on INSERT.
type ChangeEvent struct {
	Event   string   `json:"event"`
	Kind    string   `json:"kind"`
	ID      string   `json:"id"`
	OldTags []string `json:"old_tags,omitempty"`
	NewTags []string `json:"new_tags"`
}
