package issues

// CreateIssueRequest is the payload for POST /api/issues.
// The owner is never taken from the body; it comes from the session.
type CreateIssueRequest struct {
	Type        Type   `json:"type" validate:"required,oneof=Electricity Water Internet Cleanliness Other"`
	Location    string `json:"location" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=5000"`
	// ImageURL is optional; an empty string means no image.
	ImageURL string `json:"imageUrl" validate:"max=2048"`
}
