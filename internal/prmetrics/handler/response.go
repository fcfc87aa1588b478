package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorResponse.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeUpstreamError  = "UPSTREAM_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorResponse(c *gin.Context, code, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

func badRequest(c *gin.Context, message string) {
	errorResponse(c, CodeInvalidRequest, message, http.StatusBadRequest)
}

func internalError(c *gin.Context) {
	errorResponse(c, CodeInternalError, "internal server error", http.StatusInternalServerError)
}
