package admin

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/kivahq/kiva-waitlist/domain/waitlist"
	"github.com/kivahq/kiva-waitlist/internal/log"
)

// csvHeader matches the columns of the original admin export.
var csvHeader = []string{"Name", "Email", "User Type", "Feedback", "Date Joined"}

// AdminService is the read-only consumer of the waitlist store. It never
// writes entries; the submission endpoint is the only write path.
type AdminService interface {
	// ListEntries returns all waitlist entries, newest first.
	ListEntries(ctx context.Context) ([]EntryResponse, error)

	// ExportCSV streams all waitlist entries as CSV, newest first.
	ExportCSV(ctx context.Context, w io.Writer) error
}

type adminService struct {
	logger     *log.Logger
	repository waitlist.WaitlistRepository
}

func NewAdminService(logger *log.Logger, repository waitlist.WaitlistRepository) AdminService {
	return &adminService{logger: logger, repository: repository}
}

func (s *adminService) ListEntries(ctx context.Context) ([]EntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListAll(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, err
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToEntryResponse(entry))
	}

	return responses, nil
}

func (s *adminService) ExportCSV(ctx context.Context, w io.Writer) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListAll(ctx)
	if err != nil {
		logger.Error("Failed to export waitlist entries", "error", err)
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, entry := range entries {
		row := ToEntryResponse(entry)
		record := []string{row.Name, row.Email, row.UserTypeLabel, row.Feedback, row.CreatedAt}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	logger.Info("Waitlist exported", "entries", len(entries))
	return nil
}
