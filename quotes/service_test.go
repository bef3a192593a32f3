package quotes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniformsource/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// memoryRepo mimics the store's atomic push-and-set semantics behind a mutex.
type memoryRepo struct {
	mu   sync.Mutex
	docs map[string]*models.QuoteRequest
}

func newMemoryRepo(docs ...*models.QuoteRequest) *memoryRepo {
	r := &memoryRepo{docs: map[string]*models.QuoteRequest{}}
	for _, d := range docs {
		r.docs[d.ID.Hex()] = d
	}
	return r
}

func (r *memoryRepo) Insert(_ context.Context, qr *models.QuoteRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if qr.ID.IsZero() {
		qr.ID = bson.NewObjectID()
	}
	r.docs[qr.ID.Hex()] = qr
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*models.QuoteRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	cp.ActivityLog = append([]models.ActivityLogEntry(nil), doc.ActivityLog...)
	return &cp, nil
}

func (r *memoryRepo) List(_ context.Context, _ ListFilter) ([]models.QuoteRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.QuoteRequest, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepo) ListAssigned(_ context.Context, supplierID string) ([]models.QuoteRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.QuoteRequest, 0)
	for _, d := range r.docs {
		if d.AssignedSupplierID == supplierID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, id string, status models.QuoteStatus, at time.Time, entry models.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = at
	doc.ActivityLog = append(doc.ActivityLog, entry)
	return nil
}

func (r *memoryRepo) SetAdminNotes(_ context.Context, id string, notes string, at time.Time, entry models.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.AdminNotes = notes
	doc.UpdatedAt = at
	doc.ActivityLog = append(doc.ActivityLog, entry)
	return nil
}

func (r *memoryRepo) SetAssignedSupplier(_ context.Context, id, supplierID string, at time.Time, entry models.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.AssignedSupplierID = supplierID
	doc.UpdatedAt = at
	doc.ActivityLog = append(doc.ActivityLog, entry)
	return nil
}

func (r *memoryRepo) AppendLog(_ context.Context, id string, entry models.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.ActivityLog = append(doc.ActivityLog, entry)
	return nil
}

func newTestRequest() *models.QuoteRequest {
	return &models.QuoteRequest{
		ID:          bson.NewObjectID(),
		CompanyName: "Acme Schools",
		Status:      models.QuoteStatusNew,
		ActivityLog: []models.ActivityLogEntry{},
	}
}

func TestUpdateStatusAppendsOrderedLogEntries(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	require.NoError(t, svc.UpdateStatus(ctx, qr.ID.Hex(), "quoted", "admin-1"))
	require.NoError(t, svc.UpdateStatus(ctx, qr.ID.Hex(), "closed", "admin-2"))

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusClosed, got.Status)
	require.Len(t, got.ActivityLog, 2)
	assert.Equal(t, `Status changed to "quoted"`, got.ActivityLog[0].Action)
	assert.Equal(t, "admin-1", got.ActivityLog[0].AdminUID)
	assert.Equal(t, `Status changed to "closed"`, got.ActivityLog[1].Action)
	assert.Equal(t, "admin-2", got.ActivityLog[1].AdminUID)
	assert.False(t, got.ActivityLog[1].Timestamp.Before(got.ActivityLog[0].Timestamp))
}

func TestUpdateStatusSameValueStillLogs(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	require.NoError(t, svc.UpdateStatus(ctx, qr.ID.Hex(), "new", "admin-1"))

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusNew, got.Status)
	require.Len(t, got.ActivityLog, 1)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	err := svc.UpdateStatus(ctx, qr.ID.Hex(), "archived", "admin-1")
	require.ErrorIs(t, err, models.ErrInvalidQuoteStatus)

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusNew, got.Status)
	assert.Empty(t, got.ActivityLog)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	svc := NewService(newMemoryRepo())
	err := svc.UpdateStatus(context.Background(), bson.NewObjectID().Hex(), "quoted", "admin-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveNotesOverwritesVerbatim(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	require.NoError(t, svc.SaveNotes(ctx, qr.ID.Hex(), "call back Tuesday", "admin-1"))
	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "call back Tuesday", got.AdminNotes)

	// an explicit empty string clears the notes and still logs
	require.NoError(t, svc.SaveNotes(ctx, qr.ID.Hex(), "", "admin-1"))
	got, err = svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "", got.AdminNotes)
	require.Len(t, got.ActivityLog, 2)
	assert.Equal(t, "Admin notes updated", got.ActivityLog[0].Action)
	assert.Equal(t, "Admin notes updated", got.ActivityLog[1].Action)
}

func TestAssignSupplier(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	require.NoError(t, svc.AssignSupplier(ctx, qr.ID.Hex(), "supplier-7", "admin-1"))

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "supplier-7", got.AssignedSupplierID)
	require.Len(t, got.ActivityLog, 1)
	assert.Equal(t, "Supplier assigned", got.ActivityLog[0].Action)

	assigned, err := svc.ListAssigned(ctx, "supplier-7")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, qr.ID, assigned[0].ID)
}

func TestLogViewAppendsOnePerView(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	const views = 5
	for i := 0; i < views; i++ {
		require.NoError(t, svc.LogView(ctx, qr.ID.Hex(), "admin-1"))
	}
	require.NoError(t, svc.UpdateStatus(ctx, qr.ID.Hex(), "reviewing", "admin-1"))
	require.NoError(t, svc.LogView(ctx, qr.ID.Hex(), "admin-2"))

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)

	viewed := 0
	for _, e := range got.ActivityLog {
		if e.Action == "Quote viewed by admin" {
			viewed++
		}
	}
	assert.Equal(t, views+1, viewed)
	assert.Len(t, got.ActivityLog, views+2)
}

func TestConcurrentMutationsLoseNoLogEntries(t *testing.T) {
	ctx := context.Background()
	qr := newTestRequest()
	repo := newMemoryRepo(qr)
	svc := NewService(repo)

	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = svc.UpdateStatus(ctx, qr.ID.Hex(), "reviewing", "admin-1")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = svc.SaveNotes(ctx, qr.ID.Hex(), "note", "admin-2")
		}
	}()
	wg.Wait()

	got, err := svc.Get(ctx, qr.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, got.ActivityLog, 2*rounds)
}
