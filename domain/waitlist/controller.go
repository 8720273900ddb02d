package waitlist

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kivahq/kiva-waitlist/config/router"
	"github.com/kivahq/kiva-waitlist/internal/log"
	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
	"github.com/kivahq/kiva-waitlist/pkg/ratelimit"
	"gorm.io/gorm"
)

// NewWaitlistController mounts POST /api/waitlist, the single write path
// of the system.
func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"api",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository)

			joinLimiter := createJoinRateLimiter()

			rs.AddPostHandler(c, joinLimiter, "", joinWaitlistHandler(service))
		},
	)
}

func createJoinRateLimiter() ratelimit.RateLimiter {
	const joinRequestsPerMinute = 30 // More permissive than monitoring (10/min)

	config := &ratelimit.RateLimitConfig{
		Requests: joinRequestsPerMinute,
		Window:   time.Minute,
		Redis:    nil, // For now, use in-memory (could be enhanced to use Redis)
		Logger:   nil,
	}

	return ratelimit.NewRateLimiter(config)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind join request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult(MsgInvalidFormData, validationErrors)
			}

			return router.BadRequestResult(MsgInvalidFormData, nil)
		}

		response, err := service.JoinWaitlist(ctx.Request.Context(), &req)
		if err != nil {
			// Persistence outcomes are classified exactly once, here: a
			// duplicate email is the one distinguished business-rule failure
			// (a client error per the wire contract); everything else is
			// logged and reported generically.
			if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
				return router.BadRequestResult(MsgDuplicateEmail, nil)
			}

			logger.Error("Unexpected failure while joining waitlist", "error", err)
			return router.InternalServerErrorResult(MsgJoinFailed)
		}

		return router.OKResult(MsgJoinedWaitlist, gin.H{
			"id": response.ID,
		})
	}
}
