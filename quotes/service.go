package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/uniformsource/backend/models"
)

// Action strings are part of the persisted audit format and must not change.
const (
	actionNotesUpdated     = "Admin notes updated"
	actionViewedByAdmin    = "Quote viewed by admin"
	actionSupplierAssigned = "Supplier assigned"
)

// Service is the lifecycle manager for submitted quote requests. Every
// mutation appends an activity-log entry, even when the written value equals
// the current one: the audit trail records actions, not diffs.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Get(ctx context.Context, id string) (*models.QuoteRequest, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.QuoteRequest, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) ListAssigned(ctx context.Context, supplierID string) ([]models.QuoteRequest, error) {
	return s.repo.ListAssigned(ctx, supplierID)
}

// UpdateStatus writes the new status and refreshes updatedAt. The status set
// is validated here; any valid status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id, status, adminUID string) error {
	st, err := models.ParseQuoteStatus(status)
	if err != nil {
		return err
	}
	now := s.now()
	entry := models.ActivityLogEntry{
		Action:    fmt.Sprintf("Status changed to %q", string(st)),
		AdminUID:  adminUID,
		Timestamp: now,
	}
	return s.repo.SetStatus(ctx, id, st, now, entry)
}

// SaveNotes overwrites adminNotes verbatim; an empty string clears them.
func (s *Service) SaveNotes(ctx context.Context, id, notes, adminUID string) error {
	now := s.now()
	entry := models.ActivityLogEntry{
		Action:    actionNotesUpdated,
		AdminUID:  adminUID,
		Timestamp: now,
	}
	return s.repo.SetAdminNotes(ctx, id, notes, now, entry)
}

// AssignSupplier routes the request to a supplier's portal.
func (s *Service) AssignSupplier(ctx context.Context, id, supplierID, adminUID string) error {
	now := s.now()
	entry := models.ActivityLogEntry{
		Action:    actionSupplierAssigned,
		AdminUID:  adminUID,
		Timestamp: now,
	}
	return s.repo.SetAssignedSupplier(ctx, id, supplierID, now, entry)
}

// LogView records that an admin opened the request. It touches no other
// field; callers treat a failure here as non-fatal.
func (s *Service) LogView(ctx context.Context, id, adminUID string) error {
	entry := models.ActivityLogEntry{
		Action:    actionViewedByAdmin,
		AdminUID:  adminUID,
		Timestamp: s.now(),
	}
	return s.repo.AppendLog(ctx, id, entry)
}
