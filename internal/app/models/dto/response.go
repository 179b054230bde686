package dto

// SuccessResponse represents a standard success message for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// ConfirmPrompt is the two-step delete confirmation response: the caller
// must resend the same request with confirm=true for the delete to happen.
type ConfirmPrompt struct {
	Message    string `json:"message" example:"Are you sure you want to delete the user \"asha.n\"?"`
	ConfirmURL string `json:"confirm_url" example:"http://localhost:8080/delete-users/3/?confirm=true"`
}
