package oauthmodel

import "fmt"

// ErrorResponse is the RFC 6749 section 5.2 error body returned by the token endpoint
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Standard error codes a token endpoint answers with
const (
	ErrorInvalidRequest = "invalid_request"
	ErrorInvalidClient  = "invalid_client"
	ErrorInvalidGrant   = "invalid_grant"
	ErrorUnauthorized   = "unauthorized_client"
)
