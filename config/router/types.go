package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// statusResponseWritten marks a ServiceResult whose handler already wrote
// the response body itself (e.g. a file download). The dispatcher skips
// JSON rendering for it.
const statusResponseWritten = -1

// ServiceResult is the uniform response envelope. It renders as
// {"success": <2xx?>, "message": <message>, ...fields} where Fields are
// merged into the top level of the body (e.g. "id", "entries", "errors").
type ServiceResult struct {
	StatusCode int
	Message    string
	Fields     gin.H
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{
		"success": result.IsSuccess(),
		"message": result.Message,
	}
	for key, value := range result.Fields {
		body[key] = value
	}
	return body
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
