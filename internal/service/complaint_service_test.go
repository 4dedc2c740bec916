package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-tracker/internal/domain"
	"github.com/spec-kit/complaint-tracker/internal/events"
	"github.com/spec-kit/complaint-tracker/internal/repository"
	apperrors "github.com/spec-kit/complaint-tracker/pkg/util"
)

type mockComplaintRepo struct {
	CreateFunc         func(ctx context.Context, complaint *domain.Complaint) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUserFunc     func(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListWithFilterFunc func(ctx context.Context, filter repository.ComplaintFilter) ([]domain.ComplaintWithOwner, error)
	UpdateStatusFunc   func(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	return m.CreateFunc(ctx, complaint)
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockComplaintRepo) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *mockComplaintRepo) ListWithFilter(ctx context.Context, filter repository.ComplaintFilter) ([]domain.ComplaintWithOwner, error) {
	return m.ListWithFilterFunc(ctx, filter)
}

func (m *mockComplaintRepo) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockComplaintRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// recordingDispatcher captures published events synchronously.
type recordingDispatcher struct {
	published []events.Event
	fail      error
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return d.fail
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
func (d *recordingDispatcher) Close()                                         {}

func validInput() ComplaintCreateInput {
	return ComplaintCreateInput{
		Title:       "Broken item",
		Description: "The item arrived broken",
		Category:    domain.CategoryProduct,
		Priority:    domain.PriorityHigh,
	}
}

func TestCreate_ForcesPendingStatus(t *testing.T) {
	var persisted *domain.Complaint
	repo := &mockComplaintRepo{
		CreateFunc: func(ctx context.Context, complaint *domain.Complaint) error {
			complaint.ID = "c-1"
			persisted = complaint
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := NewComplaintService(repo, dispatcher)

	complaint, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, complaint.Status)
	assert.Equal(t, domain.StatusPending, persisted.Status)
	assert.Equal(t, "user-1", persisted.UserID)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventComplaintCreated, dispatcher.published[0].Type)
	payload, ok := dispatcher.published[0].Payload.(events.ComplaintCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "Broken item", payload.Title)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ComplaintCreateInput)
		wantField string
	}{
		{"missing title", func(in *ComplaintCreateInput) { in.Title = "" }, "title"},
		{"title too long", func(in *ComplaintCreateInput) { in.Title = strings.Repeat("x", 101) }, "title"},
		{"title too long in runes", func(in *ComplaintCreateInput) { in.Title = strings.Repeat("é", 101) }, "title"},
		{"missing description", func(in *ComplaintCreateInput) { in.Description = "  " }, "description"},
		{"description too long", func(in *ComplaintCreateInput) { in.Description = strings.Repeat("x", 1001) }, "description"},
		{"description too long in runes", func(in *ComplaintCreateInput) { in.Description = strings.Repeat("é", 1001) }, "description"},
		{"invalid category", func(in *ComplaintCreateInput) { in.Category = "Billing" }, "category"},
		{"missing category", func(in *ComplaintCreateInput) { in.Category = "" }, "category"},
		{"invalid priority", func(in *ComplaintCreateInput) { in.Priority = "Urgent" }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockComplaintRepo{
				CreateFunc: func(ctx context.Context, complaint *domain.Complaint) error {
					t.Fatal("Create must not reach the store on invalid input")
					return nil
				},
			}
			svc := NewComplaintService(repo, &recordingDispatcher{})

			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), "user-1", input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Equal(t, tt.wantField, domainErr.Details["field"])
		})
	}
}

func TestCreate_LimitsCountCharactersNotBytes(t *testing.T) {
	repo := &mockComplaintRepo{
		CreateFunc: func(ctx context.Context, complaint *domain.Complaint) error {
			complaint.ID = "c-1"
			return nil
		},
	}
	svc := NewComplaintService(repo, &recordingDispatcher{})

	// 100 two-byte runes exceed the limit in bytes but not in characters.
	input := validInput()
	input.Title = strings.Repeat("é", 100)
	input.Description = strings.Repeat("é", 1000)

	_, err := svc.Create(context.Background(), "user-1", input)
	assert.NoError(t, err)
}

func TestCreate_DispatchFailureDoesNotFailCreate(t *testing.T) {
	repo := &mockComplaintRepo{
		CreateFunc: func(ctx context.Context, complaint *domain.Complaint) error {
			complaint.ID = "c-1"
			return nil
		},
	}
	dispatcher := &recordingDispatcher{fail: assert.AnError}
	svc := NewComplaintService(repo, dispatcher)

	_, err := svc.Create(context.Background(), "user-1", validInput())
	assert.NoError(t, err)
}

func TestListAll_FilterValidation(t *testing.T) {
	svc := NewComplaintService(&mockComplaintRepo{}, nil)

	_, err := svc.ListAll(context.Background(), AdminComplaintFilter{Status: "Open"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.ListAll(context.Background(), AdminComplaintFilter{Priority: "Critical"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestListAll_PassesFilterToStore(t *testing.T) {
	var got repository.ComplaintFilter
	repo := &mockComplaintRepo{
		ListWithFilterFunc: func(ctx context.Context, filter repository.ComplaintFilter) ([]domain.ComplaintWithOwner, error) {
			got = filter
			return nil, nil
		},
	}
	svc := NewComplaintService(repo, nil)

	_, err := svc.ListAll(context.Background(), AdminComplaintFilter{Status: "Resolved", Priority: "High"})
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.StatusResolved, *got.Status)
	assert.Equal(t, domain.PriorityHigh, *got.Priority)

	_, err = svc.ListAll(context.Background(), AdminComplaintFilter{})
	require.NoError(t, err)
	assert.Nil(t, got.Status)
	assert.Nil(t, got.Priority)
}

func TestUpdateStatus(t *testing.T) {
	t.Run("invalid status never reaches the store", func(t *testing.T) {
		repo := &mockComplaintRepo{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Complaint, error) {
				t.Fatal("GetByID must not be called with an invalid status")
				return nil, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
				t.Fatal("UpdateStatus must not be called with an invalid status")
				return nil, nil
			},
		}
		svc := NewComplaintService(repo, nil)

		_, err := svc.UpdateStatus(context.Background(), "c-1", "Closed")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		repo := &mockComplaintRepo{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Complaint, error) {
				return nil, pgx.ErrNoRows
			},
			UpdateStatusFunc: func(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
				t.Fatal("UpdateStatus must not be called for a missing id")
				return nil, nil
			},
		}
		svc := NewComplaintService(repo, nil)

		_, err := svc.UpdateStatus(context.Background(), "missing", domain.StatusResolved)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	})

	t.Run("any-to-any transition is allowed", func(t *testing.T) {
		repo := &mockComplaintRepo{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Complaint, error) {
				return &domain.Complaint{ID: id, Title: "t", Status: domain.StatusResolved}, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
				return &domain.Complaint{ID: id, Title: "t", Status: status}, nil
			},
		}
		dispatcher := &recordingDispatcher{}
		svc := NewComplaintService(repo, dispatcher)

		// Resolved back to Pending is permitted; the graph is flat.
		updated, err := svc.UpdateStatus(context.Background(), "c-1", domain.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, updated.Status)

		// The event carries both sides of the transition.
		require.Len(t, dispatcher.published, 1)
		assert.Equal(t, events.EventComplaintStatusChanged, dispatcher.published[0].Type)
		payload, ok := dispatcher.published[0].Payload.(events.ComplaintStatusChangedPayload)
		require.True(t, ok)
		assert.Equal(t, domain.StatusResolved, payload.OldStatus)
		assert.Equal(t, domain.StatusPending, payload.NewStatus)
	})
}

func TestDelete(t *testing.T) {
	t.Run("unknown id maps to not found", func(t *testing.T) {
		repo := &mockComplaintRepo{
			DeleteFunc: func(ctx context.Context, id string) error { return pgx.ErrNoRows },
		}
		svc := NewComplaintService(repo, nil)

		err := svc.Delete(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	})

	t.Run("existing id", func(t *testing.T) {
		deleted := ""
		repo := &mockComplaintRepo{
			DeleteFunc: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		svc := NewComplaintService(repo, nil)

		require.NoError(t, svc.Delete(context.Background(), "c-1"))
		assert.Equal(t, "c-1", deleted)
	})
}
