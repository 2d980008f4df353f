package domain

// Reply is the result of processing one inbound message
type Reply struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ListingID int64  `json:"listing_id,omitempty"`
}
