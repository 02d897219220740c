package serverutils

// Response is the success envelope shared by every endpoint.
type Response[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// ErrorBody is the failure envelope. Kind is machine-checkable; Message is
// for humans. Internal stack detail never ends up here.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(kind, message string) ErrorBody {
	return ErrorBody{
		Status: "error",
		Error: ErrorDetail{
			Kind:    kind,
			Message: message,
		},
	}
}
