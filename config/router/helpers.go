package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kivahq/kiva-waitlist/internal/log"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

// OKResult returns a 200 envelope; fields are merged into the response
// body alongside "success" and "message".
func OKResult(message string, fields gin.H) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Message:    message,
		Fields:     fields,
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Too Many Requests",
		Fields: gin.H{
			"limit":       data.Limit,
			"window":      data.Window,
			"retry_after": data.RetryAfter,
		},
	}
}

// BadRequestResult returns a 400 envelope. A non-nil errors value is
// rendered as the top-level "errors" array of field-level failures.
func BadRequestResult(message string, errors any) *ServiceResult {
	result := &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
	if errors != nil {
		result.Fields = gin.H{"errors": errors}
	}
	return result
}

func UnauthorizedResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, fields gin.H) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Message:    message,
		Fields:     fields,
	}
}

// ResponseWrittenResult signals that the handler streamed the response
// itself (CSV downloads and the like); the dispatcher will not write a
// JSON body on top of it.
func ResponseWrittenResult() *ServiceResult {
	return &ServiceResult{StatusCode: statusResponseWritten}
}
