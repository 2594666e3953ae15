package models

// Subscription records the tags one subscriber wants to be notified about.
// SubscriberID doubles as the notification endpoint. InterestTags is a true
// set: re-submitting a held tag changes nothing.
type Subscription struct {
	SubscriberID string `json:"subscriber_id"`
	InterestTags TagSet `json:"interest_tags"`
}
