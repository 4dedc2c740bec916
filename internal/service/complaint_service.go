package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-tracker/internal/domain"
	"github.com/spec-kit/complaint-tracker/internal/events"
	"github.com/spec-kit/complaint-tracker/internal/repository"
	apperrors "github.com/spec-kit/complaint-tracker/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// ComplaintCreateInput describes the creation payload. Any status the
// client supplies is ignored; new complaints always start Pending.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// AdminComplaintFilter describes admin listing filters.
type AdminComplaintFilter struct {
	Status   string
	Priority string
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints repository.ComplaintRepository, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, dispatcher: dispatcher}
}

// Create validates and persists a complaint for the owner, then publishes
// a created event. Event dispatch is best-effort and never fails the
// create.
func (s *ComplaintService) Create(ctx context.Context, userID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.StatusPending,
		UserID:      userID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorUserID: userID,
		Payload: events.ComplaintCreatedPayload{
			Title:       complaint.Title,
			Category:    complaint.Category,
			Priority:    complaint.Priority,
			Description: complaint.Description,
		},
	})
	return complaint, nil
}

// ListOwn returns the caller's complaints, newest first. The verified
// token subject is the only permitted owner filter.
func (s *ComplaintService) ListOwn(ctx context.Context, userID string) ([]domain.Complaint, error) {
	result, err := s.complaints.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListAll returns complaints for admins, joined with owner contact
// fields, optionally restricted by status and priority.
func (s *ComplaintService) ListAll(ctx context.Context, filter AdminComplaintFilter) ([]domain.ComplaintWithOwner, error) {
	repoFilter := repository.ComplaintFilter{}
	if filter.Status != "" {
		status := domain.ComplaintStatus(filter.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": filter.Status})
		}
		repoFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := domain.ComplaintPriority(filter.Priority)
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": filter.Priority})
		}
		repoFilter.Priority = &priority
	}

	result, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// UpdateStatus sets a complaint's status. Any status may transition to
// any other; only enum membership is checked. Re-applying the same status
// is a no-op at the store.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	complaint, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintStatusChangedPayload{
			Title:     complaint.Title,
			OldStatus: current.Status,
			NewStatus: complaint.Status,
			ChangedAt: time.Now(),
		},
	})
	return complaint, nil
}

// Delete removes a complaint permanently. No soft-delete, no audit trail.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if err := s.complaints.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCreateInput(input ComplaintCreateInput) error {
	switch {
	case input.Title == "":
		return apperrors.NewValidationError("please provide a title", map[string]any{"field": "title"})
	case utf8.RuneCountInString(input.Title) > domain.MaxTitleLength:
		return apperrors.NewValidationError("title cannot be more than 100 characters", map[string]any{"field": "title"})
	case input.Description == "":
		return apperrors.NewValidationError("please provide a description", map[string]any{"field": "description"})
	case utf8.RuneCountInString(input.Description) > domain.MaxDescriptionLength:
		return apperrors.NewValidationError("description cannot be more than 1000 characters", map[string]any{"field": "description"})
	case !input.Category.Valid():
		return apperrors.NewValidationError("please select a valid category", map[string]any{"field": "category"})
	case !input.Priority.Valid():
		return apperrors.NewValidationError("please select a valid priority", map[string]any{"field": "priority"})
	}
	return nil
}
