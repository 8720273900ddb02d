package waitlist

import (
	"github.com/kivahq/kiva-waitlist/internal/models"
	"github.com/kivahq/kiva-waitlist/pkg/constants"
)

// User-facing messages for the join flow. The duplicate and failure
// messages are part of the wire contract consumed by the submission
// client; change them in lockstep.
const (
	MsgJoinedWaitlist  = "Successfully joined the waitlist"
	MsgInvalidFormData = "Invalid form data"
	MsgDuplicateEmail  = "This email is already on our waitlist."
	MsgJoinFailed      = "Failed to join waitlist. Please try again later."
)

type JoinWaitlistRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Feedback string `json:"feedback" binding:"omitempty,max=2000"`
	UserType string `json:"userType" binding:"required,oneof=buyer seller influencer"`
}

type WaitlistEntryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	UserType  string `json:"user_type"`
	Feedback  string `json:"feedback"`
	CreatedAt string `json:"created_at"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *JoinWaitlistRequest) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Email:    req.Email,
		Name:     req.Name,
		UserType: req.UserType,
		Feedback: req.Feedback,
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		Name:      entry.Name,
		UserType:  entry.UserType,
		Feedback:  entry.Feedback,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
