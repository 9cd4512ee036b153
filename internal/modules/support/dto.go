package support

type CreateTicketRequest struct {
	Subject    string `json:"subject" binding:"required"`
	Body       string `json:"body" binding:"required"`
	LocationID *int64 `json:"location_id"`
}
