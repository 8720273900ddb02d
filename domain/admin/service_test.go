package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/kivahq/kiva-waitlist/domain/waitlist"
	"github.com/kivahq/kiva-waitlist/internal/log"
	"github.com/kivahq/kiva-waitlist/internal/models"
	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServiceWithMock(t *testing.T) (AdminService, *waitlist.MockWaitlistRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := waitlist.NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	return NewAdminService(logger, mockRepo), mockRepo
}

func sampleEntries() []*models.WaitlistEntry {
	joined := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []*models.WaitlistEntry{
		{
			ID:        "id-2",
			Email:     "seller@example.com",
			Name:      "Sade",
			UserType:  models.UserTypeSeller,
			Feedback:  "Love the idea",
			CreatedAt: joined.Add(time.Hour),
		},
		{
			ID:        "id-1",
			Email:     "buyer@example.com",
			Name:      "Bayo",
			UserType:  models.UserTypeBuyer,
			CreatedAt: joined,
		},
	}
}

func TestAdminService_ListEntries(t *testing.T) {
	service, mockRepo := newServiceWithMock(t)

	mockRepo.EXPECT().
		ListAll(gomock.Any()).
		Return(sampleEntries(), nil)

	entries, err := service.ListEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "seller@example.com", entries[0].Email)
	assert.Equal(t, "Seller", entries[0].UserTypeLabel)
	assert.Equal(t, "buyer", entries[1].UserType)
	assert.Equal(t, "Buyer", entries[1].UserTypeLabel)
	assert.Empty(t, entries[1].Feedback)
}

func TestAdminService_ListEntries_RepositoryError(t *testing.T) {
	service, mockRepo := newServiceWithMock(t)

	mockRepo.EXPECT().
		ListAll(gomock.Any()).
		Return(nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", nil))

	entries, err := service.ListEntries(context.Background())

	assert.Error(t, err)
	assert.Nil(t, entries)
}

func TestAdminService_ExportCSV(t *testing.T) {
	service, mockRepo := newServiceWithMock(t)

	mockRepo.EXPECT().
		ListAll(gomock.Any()).
		Return(sampleEntries(), nil)

	var buf bytes.Buffer
	err := service.ExportCSV(context.Background(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Name", "Email", "User Type", "Feedback", "Date Joined"}, records[0])
	assert.Equal(t, "Sade", records[1][0])
	assert.Equal(t, "Seller", records[1][2])
	assert.Equal(t, "Love the idea", records[1][3])
	assert.Equal(t, "buyer@example.com", records[2][1])
	assert.Equal(t, "", records[2][3])
}

func TestAdminService_ExportCSV_Empty(t *testing.T) {
	service, mockRepo := newServiceWithMock(t)

	mockRepo.EXPECT().
		ListAll(gomock.Any()).
		Return(nil, nil)

	var buf bytes.Buffer
	err := service.ExportCSV(context.Background(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
