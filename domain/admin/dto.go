package admin

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kivahq/kiva-waitlist/internal/models"
	"github.com/kivahq/kiva-waitlist/pkg/constants"
)

// titleCaser renders user types for display ("buyer" -> "Buyer").
var titleCaser = cases.Title(language.English)

type EntryResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	UserType      string `json:"user_type"`
	UserTypeLabel string `json:"user_type_label"`
	Feedback      string `json:"feedback"`
	CreatedAt     string `json:"created_at"`
}

func ToEntryResponse(entry *models.WaitlistEntry) EntryResponse {
	if entry == nil {
		return EntryResponse{}
	}
	return EntryResponse{
		ID:            entry.ID,
		Email:         entry.Email,
		Name:          entry.Name,
		UserType:      entry.UserType,
		UserTypeLabel: titleCaser.String(entry.UserType),
		Feedback:      entry.Feedback,
		CreatedAt:     entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
