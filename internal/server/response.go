package server

import "github.com/gin-gonic/gin"

// APIError is the machine-checkable half of every error response; Message
// is the user-facing half.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, errorEnvelope{Error: APIError{Message: msg, Code: code}})
}
