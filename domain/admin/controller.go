package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kivahq/kiva-waitlist/config/router"
	"github.com/kivahq/kiva-waitlist/domain/waitlist"
	"github.com/kivahq/kiva-waitlist/internal/log"
	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
	"gorm.io/gorm"
)

// NewAdminController mounts the read-only admin surface:
// GET /api/admin/waitlist and GET /api/admin/waitlist/export.
func NewAdminController(
	db *gorm.DB,
	logger *log.Logger,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"AdminController",
		"api",
		"/admin/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := waitlist.NewWaitlistRepository(db)
			service := NewAdminService(logger, repository)

			rs.AddGetHandler(c, nil, "", listEntriesHandler(service))
			rs.AddGetHandler(c, nil, "/export", exportEntriesHandler(service))
		},
	)
}

func listEntriesHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		entries, err := service.ListEntries(ctx.Request.Context())
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult("Waitlist entries retrieved successfully", gin.H{
			"entries": entries,
			"count":   len(entries),
		})
	}
}

func exportEntriesHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var buf bytes.Buffer
		if err := service.ExportCSV(ctx.Request.Context(), &buf); err != nil {
			logger.Error("CSV export failed", "error", err)
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		filename := fmt.Sprintf("waitlist-%s.csv", time.Now().UTC().Format("2006-01-02"))
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, "text/csv", buf.Bytes())

		return router.ResponseWrittenResult()
	}
}
