package dto

import (
	"time"

	"github.com/spec-kit/complaint-tracker/internal/domain"
)

// CreateComplaintRequest payload. A status field supplied by the client
// is not represented here; creation always starts Pending.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// UpdateStatusRequest payload for admin status changes.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// ComplaintResponse is the owner-facing complaint view.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Status      domain.ComplaintStatus   `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ComplaintOwner carries the owner's contact fields on admin listings.
type ComplaintOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminComplaintResponse is the admin listing view.
type AdminComplaintResponse struct {
	ComplaintResponse
	User ComplaintOwner `json:"user"`
}

// NewComplaintResponse maps a domain complaint to its response form.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

// NewAdminComplaintResponse maps a joined row to its response form.
func NewAdminComplaintResponse(c *domain.ComplaintWithOwner) AdminComplaintResponse {
	return AdminComplaintResponse{
		ComplaintResponse: NewComplaintResponse(&c.Complaint),
		User: ComplaintOwner{
			Name:  c.OwnerName,
			Email: c.OwnerEmail,
		},
	}
}
