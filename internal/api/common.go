package api

// MessageResponse is a simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result message"`
}

// MessageOutput wraps MessageResponse for huma handlers.
type MessageOutput struct {
	Body MessageResponse
}
