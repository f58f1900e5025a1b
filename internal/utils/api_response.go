package utils

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func CreateErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func CreateErrorResponseWithDetails(message string, details any) ErrorResponse {
	return ErrorResponse{Error: message, Details: details}
}

func CreateSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
	}
}
