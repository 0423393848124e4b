package waitlist

import (
	"strings"

	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/akeren/choosepure-waitlist/pkg/validation"
)

// JoinWaitlistRequest carries no binding tags: ValidateContact owns the rules
// and their messages.
type JoinWaitlistRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Pincode string `json:"pincode"`
}

type JoinWaitlistResponse struct {
	WhatsappLink string `json:"whatsappLink"`
}

type WaitlistMemberResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Pincode   string `json:"pincode"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

type ListMembersResponse struct {
	Members []WaitlistMemberResponse `json:"members"`
	Count   int                      `json:"count"`
}

// ========================================
// Mappers
// ========================================

func (req *JoinWaitlistRequest) contactFields() validation.ContactFields {
	return validation.ContactFields{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Pincode: req.Pincode,
	}
}

func ToWaitlistEntryModel(req *JoinWaitlistRequest, source string) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Name:    strings.TrimSpace(req.Name),
		Email:   validation.NormalizeEmail(req.Email),
		Phone:   req.Phone,
		Pincode: req.Pincode,
		Status:  models.WaitlistStatusActive,
		Source:  source,
	}
}

func ToWaitlistMemberResponse(entry *models.WaitlistEntry) WaitlistMemberResponse {
	if entry == nil {
		return WaitlistMemberResponse{}
	}
	return WaitlistMemberResponse{
		ID:        entry.ID,
		Name:      entry.Name,
		Email:     entry.Email,
		Phone:     entry.Phone,
		Pincode:   entry.Pincode,
		Status:    entry.Status,
		Source:    entry.Source,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
