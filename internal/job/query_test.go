package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id, company, title string, status Status, date string) Record {
	return Record{ID: id, CompanyName: company, JobTitle: title, Status: status, AppliedDate: date}
}

func TestFilter_StatusAndSearch(t *testing.T) {
	t.Parallel()
	records := []Record{
		rec("1", "Acme", "Engineer", StatusOffer, "2024-01-01"),
		rec("2", "Engage Labs", "Designer", StatusOffer, "2024-01-02"),
		rec("3", "Acme", "Engineer", StatusApplied, "2024-01-03"),
		rec("4", "Globex", "Manager", StatusOffer, "2024-01-04"),
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"everything", Query{}, []string{"1", "2", "3", "4"}},
		{"all keyword", Query{Status: StatusAll}, []string{"1", "2", "3", "4"}},
		{"status only", Query{Status: "Offer"}, []string{"1", "2", "4"}},
		{"search only, case-insensitive", Query{Search: "ENG"}, []string{"1", "2", "3"}},
		{"status and search", Query{Status: "Offer", Search: "eng"}, []string{"1", "2"}},
		{"no match", Query{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Filter(records, tt.q)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSortByAppliedDate_DescendingAndStable(t *testing.T) {
	t.Parallel()
	records := []Record{
		rec("a", "A", "T", StatusApplied, "2024-01-01"),
		rec("b", "B", "T", StatusApplied, "2024-03-01"),
		rec("c", "C", "T", StatusApplied, "2024-01-01"),
		rec("d", "D", "T", StatusApplied, "2024-03-01"),
		rec("e", "E", "T", StatusApplied, "2023-12-31"),
	}
	got := SortByAppliedDate(records)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids)
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()
	st := CountByStatus([]Record{
		rec("1", "A", "T", StatusApplied, "2024-01-01"),
		rec("2", "A", "T", StatusApplied, "2024-01-01"),
		rec("3", "A", "T", StatusRejected, "2024-01-01"),
	})
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, map[Status]int{
		StatusApplied:      2,
		StatusInterviewing: 0,
		StatusOffer:        0,
		StatusRejected:     1,
	}, st.ByStatus)
}

func TestStoreList_DoesNotReorderCollection(t *testing.T) {
	store := newTestStore(t, NewMemorySlot(nil))
	ctx := t.Context()
	older, _ := store.Create(ctx, fields("Old", "Engineer", StatusApplied, "2023-01-01"))
	newer, _ := store.Create(ctx, fields("New", "Engineer", StatusApplied, "2024-01-01"))

	assert.Equal(t, []Record{newer, older}, store.List(Query{}))
	assert.Equal(t, []Record{older, newer}, store.All())
	assert.Equal(t, 2, store.Stats().ByStatus[StatusApplied])
}
