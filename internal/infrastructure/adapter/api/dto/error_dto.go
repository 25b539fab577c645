package dto

// ErrorBody is the error object of a failed response
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// PageMeta describes the window of a paginated listing
type PageMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}
