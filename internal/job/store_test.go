package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances one second on every call so consecutive timestamps differ.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func newTestStore(t *testing.T, slot Slot) *Store {
	t.Helper()
	store, err := Open(context.Background(), slot, WithClock(newClock().Now))
	require.NoError(t, err)
	return store
}

func fields(company, title string, status Status, date string) Fields {
	return Fields{CompanyName: company, JobTitle: title, Status: status, AppliedDate: date}
}

func savedRecords(t *testing.T, slot *MemorySlot) []Record {
	t.Helper()
	data, err := slot.Load(context.Background())
	require.NoError(t, err)
	var out []Record
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestOpen_EmptySlot(t *testing.T) {
	store := newTestStore(t, NewMemorySlot(nil))
	assert.Empty(t, store.All())
	assert.Equal(t, 0, store.Len())
}

func TestOpen_UnreadableBlobStartsEmpty(t *testing.T) {
	for _, blob := range []string{`not json`, `{"jobs":[]}`, `[{"id": 5}]`} {
		store := newTestStore(t, NewMemorySlot([]byte(blob)))
		assert.Empty(t, store.All(), "blob %q", blob)
	}
}

func TestOpen_SlotErrorIsReturned(t *testing.T) {
	_, err := Open(context.Background(), failingLoadSlot{})
	assert.Error(t, err)
}

type failingLoadSlot struct{}

func (failingLoadSlot) Load(context.Context) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingLoadSlot) Save(context.Context, []byte) error   { return nil }

// switchSlot wraps a MemorySlot and fails every Save while err is set.
type switchSlot struct {
	*MemorySlot
	err error
}

func (s *switchSlot) Save(ctx context.Context, data []byte) error {
	if s.err != nil {
		return s.err
	}
	return s.MemorySlot.Save(ctx, data)
}

func TestOpen_BackfillsMissingFields(t *testing.T) {
	slot := NewMemorySlot([]byte(`[{"companyName":"Acme","jobTitle":"Eng","status":"Applied","appliedDate":"2024-01-01"}]`))
	store := newTestStore(t, slot)

	all := store.All()
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEmpty(t, all[0].LastUpdated)
}

func TestOpen_DropsNullEntries(t *testing.T) {
	slot := NewMemorySlot([]byte(`[null,{"id":"a","companyName":"Acme","jobTitle":"Eng","status":"Applied","appliedDate":"2024-01-01","lastUpdated":"2024-01-01T00:00:00.000Z"},"text"]`))
	store := newTestStore(t, slot)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].ID)
}

func TestOpen_DropsUnknownStatus(t *testing.T) {
	slot := NewMemorySlot([]byte(`[
		{"id":"a","companyName":"Acme","jobTitle":"Eng","status":"Pending","appliedDate":"2024-01-01"},
		{"id":"b","companyName":"Globex","jobTitle":"Eng","status":"Offer","appliedDate":"2024-01-01"},
		{"id":"c","jobTitle":"Eng","status":"Offer","appliedDate":"2024-01-01"}
	]`))
	store := newTestStore(t, slot)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)

	st := store.Stats()
	assert.Len(t, st.ByStatus, len(Statuses), "only known statuses are counted")
	assert.Equal(t, 1, st.ByStatus[StatusOffer])
}

func TestOpen_DropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot([]byte(`[
		{"id":"a","companyName":"First","jobTitle":"Eng","status":"Applied","appliedDate":"2024-01-01"},
		{"id":"a","companyName":"Second","jobTitle":"Eng","status":"Applied","appliedDate":"2024-01-02"},
		{"id":"b","companyName":"Other","jobTitle":"Eng","status":"Applied","appliedDate":"2024-01-03"}
	]`))
	store := newTestStore(t, slot)

	require.Equal(t, 2, store.Len())
	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "First", got.CompanyName, "the earliest entry wins")

	require.NoError(t, store.Delete(ctx, "a"))
	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestCreate_AssignsUniqueIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	store := newTestStore(t, slot)

	seen := map[string]bool{}
	for i := range 20 {
		r, err := store.Create(ctx, fields(fmt.Sprintf("Co %d", i), "Engineer", StatusApplied, "2024-01-01"))
		require.NoError(t, err)
		assert.NotEmpty(t, r.LastUpdated)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, savedRecords(t, slot), 20)
}

func TestCreate_InvalidInputLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	store := newTestStore(t, slot)

	_, err := store.Create(ctx, fields("  ", "Engineer", StatusApplied, "2024-01-01"))
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "companyName")

	_, err = store.Create(ctx, fields("Acme", "Engineer", "Pending", "2024-01-01"))
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "status")

	assert.Empty(t, store.All())
	data, _ := slot.Load(ctx)
	assert.Nil(t, data, "nothing should have been persisted")
}

func TestUpdate_PreservesIDAndRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	store := newTestStore(t, slot)

	created, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)

	// No visible change: lastUpdated must still move.
	same, err := store.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)
	assert.NotEqual(t, created.LastUpdated, same.LastUpdated)

	edit := same
	edit.Status = StatusOffer
	edit.Notes = "call back"
	edit.LastUpdated = "ignored"
	got, err := store.Update(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, StatusOffer, got.Status)
	assert.Equal(t, "call back", got.Notes)
	assert.NotEqual(t, "ignored", got.LastUpdated)

	stored, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, got, stored)
	assert.Equal(t, []Record{got}, savedRecords(t, slot))
}

func TestUpdate_UnknownIDReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewMemorySlot(nil))

	_, err := store.Update(ctx, Record{ID: "missing", CompanyName: "Acme", JobTitle: "Eng", Status: StatusApplied, AppliedDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.All())
}

func TestUpdate_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewMemorySlot(nil))
	created, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)

	bad := created
	bad.AppliedDate = "yesterday"
	_, err = store.Update(ctx, bad)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got, _ := store.Get(created.ID)
	assert.Equal(t, created, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	store := newTestStore(t, slot)

	a, err := store.Create(ctx, fields("A", "Eng", StatusApplied, "2024-01-01"))
	require.NoError(t, err)
	b, err := store.Create(ctx, fields("B", "Eng", StatusApplied, "2024-01-02"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, a.ID))
	_, ok := store.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []Record{b}, savedRecords(t, slot))

	// Unknown id is a silent no-op.
	require.NoError(t, store.Delete(ctx, "missing"))
	assert.Equal(t, []Record{b}, store.All())
}

func TestMutation_PersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	slot := &switchSlot{MemorySlot: NewMemorySlot(nil)}
	store := newTestStore(t, slot)
	created, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)

	slot.err = errors.New("disk full")

	_, err = store.Create(ctx, fields("Other", "Engineer", StatusApplied, "2024-01-01"))
	assert.Error(t, err)
	require.Error(t, store.Delete(ctx, created.ID))
	_, err = store.Import(ctx, []byte(`[]`), false)
	assert.Error(t, err)

	assert.Equal(t, []Record{created}, store.All())
}

func TestSubscribe_NotifiedAfterPersist(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	store := newTestStore(t, slot)

	var changes []Change
	unsubscribe := store.Subscribe(func(c Change) {
		// The slot must already hold the new state when observers run.
		data, err := slot.Load(ctx)
		require.NoError(t, err)
		var saved []Record
		require.NoError(t, json.Unmarshal(data, &saved))
		assert.Len(t, saved, c.Total)
		changes = append(changes, c)
	})

	created, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)
	_, err = store.Update(ctx, created)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "missing"))
	require.NoError(t, store.Delete(ctx, created.ID))

	unsubscribe()
	_, err = store.Create(ctx, fields("Later", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, []Change{
		{Kind: ChangeCreated, ID: created.ID, Total: 1},
		{Kind: ChangeUpdated, ID: created.ID, Total: 1},
		{Kind: ChangeDeleted, ID: created.ID, Total: 0},
	}, changes)
}

func TestSubscribe_ObserverMayReadStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, NewMemorySlot(nil))

	var seen int
	store.Subscribe(func(Change) { seen = store.Len() })

	_, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestWithIDGenerator(t *testing.T) {
	ctx := context.Background()
	n := 0
	store, err := Open(ctx, NewMemorySlot(nil), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	require.NoError(t, err)

	r, err := store.Create(ctx, fields("Acme", "Engineer", StatusApplied, "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", r.ID)
}
