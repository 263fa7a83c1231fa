package ragging

// CreateReportRequest is the payload for POST /api/ragging-reports.
// A missing isAnonymous decodes as false.
type CreateReportRequest struct {
	VictimName  string `json:"victimName" validate:"required,max=255"`
	Location    string `json:"location" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=5000"`
	ImageURL    string `json:"imageUrl" validate:"max=2048"`
	IsAnonymous bool   `json:"isAnonymous"`
}
