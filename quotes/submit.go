package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniformsource/backend/logger"
	"github.com/uniformsource/backend/models"
	"github.com/uniformsource/backend/storage"
)

var ErrEmptyDraft = errors.New("quote draft is empty")

// DraftSource is the slice of the draft accumulator the submitter consumes.
type DraftSource interface {
	Items() []models.QuoteDraftItem
	Clear(ctx context.Context) error
}

// Attachment is one file to store alongside a submission.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// SubmitInput carries the validated form fields of an RFQ.
type SubmitInput struct {
	CompanyName        string
	ContactName        string
	Email              string
	Phone              string
	Industry           string
	DeliveryCountry    string
	TargetDeliveryDate string
	BudgetRange        string
}

// Submitter assembles a quote request from the buyer's draft plus the form
// fields, persists the attachments, writes the document and clears the draft.
type Submitter struct {
	repo  Repository
	store storage.ObjectStore
	now   func() time.Time
}

func NewSubmitter(repo Repository, store storage.ObjectStore) *Submitter {
	return &Submitter{
		repo:  repo,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit runs the submission in order: attachments first, then the document
// write, then the draft clear. Any upload or write failure leaves the draft
// untouched so the buyer can retry without re-entering data. Objects already
// uploaded by a failed attempt are not deleted; their URLs are logged for
// later reconciliation.
func (s *Submitter) Submit(ctx context.Context, draft DraftSource, in SubmitInput, files []Attachment) (*models.QuoteRequest, error) {
	items := draft.Items()
	if len(items) == 0 {
		return nil, ErrEmptyDraft
	}

	attachments := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.store.Put(ctx, attachmentObjectName(f.Filename), f.Content, f.ContentType)
		if err != nil {
			logger.L().Error().
				Err(err).
				Str("file", f.Filename).
				Strs("orphanedUploads", attachments).
				Msg("attachment upload failed, aborting submission")
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}
		attachments = append(attachments, url)
	}

	now := s.now()
	qr := &models.QuoteRequest{
		CompanyName:        in.CompanyName,
		ContactName:        in.ContactName,
		Email:              in.Email,
		Phone:              in.Phone,
		Industry:           in.Industry,
		DeliveryCountry:    in.DeliveryCountry,
		TargetDeliveryDate: in.TargetDeliveryDate,
		BudgetRange:        in.BudgetRange,
		Items:              items,
		Attachments:        attachments,
		Status:             models.QuoteStatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
		ActivityLog:        []models.ActivityLogEntry{},
	}

	if err := s.repo.Insert(ctx, qr); err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	if err := draft.Clear(ctx); err != nil {
		// The request exists; a stale draft is recoverable.
		logger.L().Warn().Err(err).Msg("failed to clear quote draft after submission")
	}

	logger.L().Info().
		Str("quoteRequestId", qr.ID.Hex()).
		Str("companyName", qr.CompanyName).
		Int("itemCount", len(qr.Items)).
		Msg("new quote request created")

	return qr, nil
}

func attachmentObjectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("quote-attachments/%d-%s%s", time.Now().UTC().Unix(), uuid.New().String(), ext)
}
