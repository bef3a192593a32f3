package quotes

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniformsource/backend/models"
)

type stubDraft struct {
	items   []models.QuoteDraftItem
	cleared bool
}

func (d *stubDraft) Items() []models.QuoteDraftItem {
	return append([]models.QuoteDraftItem(nil), d.items...)
}

func (d *stubDraft) Clear(context.Context) error {
	d.cleared = true
	return nil
}

type stubStore struct {
	puts    []string
	failAt  int // 1-based index of the Put call that fails, 0 means never
	deleted []string
}

func (s *stubStore) Put(_ context.Context, objectName string, r io.Reader, _ string) (string, error) {
	if s.failAt > 0 && len(s.puts)+1 == s.failAt {
		return "", errors.New("bucket unavailable")
	}
	_, _ = io.ReadAll(r)
	s.puts = append(s.puts, objectName)
	return "https://cdn.example.com/" + objectName, nil
}

func (s *stubStore) Delete(_ context.Context, objectNames []string) error {
	s.deleted = append(s.deleted, objectNames...)
	return nil
}

func (s *stubStore) ObjectName(publicURL string) (string, error) {
	return strings.TrimPrefix(publicURL, "https://cdn.example.com/"), nil
}

// failingRepo rejects every insert.
type failingRepo struct {
	memoryRepo
}

func (r *failingRepo) Insert(context.Context, *models.QuoteRequest) error {
	return errors.New("write denied")
}

func testInput() SubmitInput {
	return SubmitInput{
		CompanyName:        "Acme Schools",
		ContactName:        "Dana Obi",
		Email:              "dana@acme.test",
		Phone:              "+2348000000",
		Industry:           "education",
		DeliveryCountry:    "NG",
		TargetDeliveryDate: "2026-11-01",
		BudgetRange:        "5k-10k",
	}
}

func TestSubmitRejectsEmptyDraftBeforeAnyIO(t *testing.T) {
	repo := newMemoryRepo()
	store := &stubStore{}
	sub := NewSubmitter(repo, store)

	d := &stubDraft{}
	_, err := sub.Submit(context.Background(), d, testInput(), []Attachment{
		{Filename: "logo.png", ContentType: "image/png", Content: strings.NewReader("png")},
	})

	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Empty(t, store.puts)
	assert.Empty(t, repo.docs)
	assert.False(t, d.cleared)
}

func TestSubmitCreatesRequestAndClearsDraft(t *testing.T) {
	repo := newMemoryRepo()
	store := &stubStore{}
	sub := NewSubmitter(repo, store)

	d := &stubDraft{items: []models.QuoteDraftItem{
		{ProductID: "polo", Quantity: 100, Sizes: []string{"M"}},
		{ProductID: "cap", Quantity: 50},
	}}

	qr, err := sub.Submit(context.Background(), d, testInput(), []Attachment{
		{Filename: "brief.pdf", ContentType: "application/pdf", Content: strings.NewReader("pdf")},
		{Filename: "logo.png", ContentType: "image/png", Content: strings.NewReader("png")},
	})
	require.NoError(t, err)

	assert.False(t, qr.ID.IsZero())
	assert.Equal(t, models.QuoteStatusNew, qr.Status)
	assert.Equal(t, d.items, qr.Items)
	assert.Len(t, qr.Attachments, 2)
	assert.NotNil(t, qr.ActivityLog)
	assert.Empty(t, qr.ActivityLog)
	assert.Equal(t, "Acme Schools", qr.CompanyName)
	assert.True(t, d.cleared)
	assert.Len(t, repo.docs, 1)
}

func TestSubmitWithoutAttachments(t *testing.T) {
	repo := newMemoryRepo()
	store := &stubStore{}
	sub := NewSubmitter(repo, store)

	d := &stubDraft{items: []models.QuoteDraftItem{{ProductID: "polo", Quantity: 10}}}
	qr, err := sub.Submit(context.Background(), d, testInput(), nil)
	require.NoError(t, err)

	assert.Empty(t, qr.Attachments)
	assert.Empty(t, store.puts)
	assert.True(t, d.cleared)
}

func TestSubmitUploadFailureKeepsDraft(t *testing.T) {
	repo := newMemoryRepo()
	store := &stubStore{failAt: 2}
	sub := NewSubmitter(repo, store)

	d := &stubDraft{items: []models.QuoteDraftItem{{ProductID: "polo", Quantity: 10}}}
	_, err := sub.Submit(context.Background(), d, testInput(), []Attachment{
		{Filename: "a.pdf", ContentType: "application/pdf", Content: strings.NewReader("a")},
		{Filename: "b.pdf", ContentType: "application/pdf", Content: strings.NewReader("b")},
		{Filename: "c.pdf", ContentType: "application/pdf", Content: strings.NewReader("c")},
	})
	require.Error(t, err)

	// upload stops at the failure, nothing is written, draft stays intact
	assert.Len(t, store.puts, 1)
	assert.Empty(t, repo.docs)
	assert.False(t, d.cleared)
	// already-stored objects are left for reconciliation, never deleted here
	assert.Empty(t, store.deleted)
}

func TestSubmitWriteFailureKeepsDraft(t *testing.T) {
	repo := &failingRepo{memoryRepo{docs: map[string]*models.QuoteRequest{}}}
	store := &stubStore{}
	sub := NewSubmitter(repo, store)

	d := &stubDraft{items: []models.QuoteDraftItem{{ProductID: "polo", Quantity: 10}}}
	_, err := sub.Submit(context.Background(), d, testInput(), []Attachment{
		{Filename: "a.pdf", ContentType: "application/pdf", Content: strings.NewReader("a")},
	})
	require.Error(t, err)
	assert.False(t, d.cleared)
}
