package ordering_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clearview/internal/domain"
	"clearview/internal/domain/models/content"
	"clearview/internal/domain/repositories"
	contentRepo "clearview/internal/domain/repositories/content"
	contentSvc "clearview/internal/domain/services/content"
	"clearview/internal/repository/sqlite"
	"clearview/internal/repository/tables"
	"clearview/internal/service/ordering"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type revalidations struct {
	mu   sync.Mutex
	keys []string
}

func (r *revalidations) Revalidate(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *revalidations) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

type fixture struct {
	rc      *sqlite.RepositoryConfig
	faqRepo contentRepo.OrderedRepository[*content.FAQ]
	faqs    *ordering.Manager[*content.FAQ]
	svcs    *ordering.Manager[*content.Service]
	reval   *revalidations
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "ordering.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	names := tables.NewNames("test_")
	require.NoError(t, sqlite.Migrate(ctx, db, names))

	rc := &sqlite.RepositoryConfig{DB: db, Tables: names}
	tx := sqlite.NewTransactionManager(db, nil)
	reval := &revalidations{}
	faqRepo := sqlite.NewOrderedRepository(rc, tables.FAQTable)

	return &fixture{
		rc:      rc,
		faqRepo: faqRepo,
		faqs:    ordering.NewManager(faqRepo, tx, reval, nil),
		svcs:    ordering.NewManager(sqlite.NewOrderedRepository(rc, tables.ServiceTable), tx, reval, nil),
		reval:   reval,
	}
}

func appendFAQ(t *testing.T, m *ordering.Manager[*content.FAQ], question string) *content.FAQ {
	t.Helper()
	item, err := m.Append(context.Background(), &content.FAQ{Question: question, Answer: "answer to " + question})
	require.NoError(t, err)
	return item.(*content.FAQ)
}

func appendService(t *testing.T, m *ordering.Manager[*content.Service], name string) *content.Service {
	t.Helper()
	item, err := m.Append(context.Background(), &content.Service{Name: name, Description: name + " service"})
	require.NoError(t, err)
	return item.(*content.Service)
}

func ids(items []content.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Base().ID
	}
	return out
}

func questions(items []content.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(*content.FAQ).Question
	}
	return out
}

// assertGapFree checks orders are exactly 0..n-1 in list position
func assertGapFree(t *testing.T, items []content.Item) {
	t.Helper()
	for i, item := range items {
		require.Equal(t, i, item.Base().Order, "item %s at position %d", item.Base().ID, i)
	}
}

func TestAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := appendFAQ(t, f.faqs, "A")
	assert.Equal(t, 0, a.Order)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	b := appendFAQ(t, f.faqs, "B")
	c := appendFAQ(t, f.faqs, "C")
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 2, c.Order)

	items, err := f.faqs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, questions(items))
	assertGapFree(t, items)

	// earlier rows are untouched by later appends
	first := items[0].(*content.FAQ)
	assert.True(t, first.UpdatedAt.Equal(a.UpdatedAt))
	assert.Equal(t, 3, f.reval.count())
}

func TestAppendTrimsAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.faqs.Append(ctx, &content.FAQ{Question: "  Do you take insurance?  ", Answer: " Yes "})
	require.NoError(t, err)
	assert.Equal(t, "Do you take insurance?", item.(*content.FAQ).Question)

	tests := []struct {
		name string
		item content.Item
	}{
		{"blank question", &content.FAQ{Question: "   ", Answer: "a"}},
		{"missing answer", &content.FAQ{Question: "q"}},
		{"wrong entity type", &content.Service{Name: "n", Description: "d"}},
		{"nil item", nil},
		{"nil faq pointer", (*content.FAQ)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.faqs.Append(ctx, tt.item)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}

	items, err := f.faqs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestConcurrentAppendsStayGapFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const writers = 8
	g, gctx := errgroup.WithContext(ctx)
	for i := range writers {
		g.Go(func() error {
			_, err := f.faqs.Append(gctx, &content.FAQ{Question: fmt.Sprintf("Q%d", i), Answer: "a"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	items, err := f.faqs.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, writers)
	assertGapFree(t, items)
}

func TestReorderScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")
	c := appendFAQ(t, f.faqs, "C")

	items, err := f.faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: []string{c.ID, a.ID, b.ID}})
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, questions(items))
	assertGapFree(t, items)
}

func TestReorderIsBijection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := range 6 {
		appendFAQ(t, f.faqs, fmt.Sprintf("Q%d", i))
	}
	items, err := f.faqs.List(ctx)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 11))
	for range 20 {
		perm := ids(items)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		items, err = f.faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: perm})
		require.NoError(t, err)
		if diff := cmp.Diff(perm, ids(items)); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
		assertGapFree(t, items)
	}
}

func TestReorderIdentityIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, q := range []string{"A", "B", "C"} {
		appendFAQ(t, f.faqs, q)
	}
	before, err := f.faqs.List(ctx)
	require.NoError(t, err)

	for range 2 {
		after, err := f.faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: ids(before)})
		require.NoError(t, err)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].Base().Order, after[i].Base().Order)
			assert.True(t, before[i].Base().UpdatedAt.Equal(after[i].Base().UpdatedAt),
				"identity reorder touched %s", before[i].Base().ID)
		}
	}
}

func TestReorderRejectsBadLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")
	c := appendFAQ(t, f.faqs, "C")

	tests := []struct {
		name string
		req  *contentSvc.ReorderRequest
		kind domain.ErrorKind
	}{
		{"empty list", &contentSvc.ReorderRequest{}, domain.KindValidation},
		{"blank id", &contentSvc.ReorderRequest{IDs: []string{a.ID, "", c.ID}}, domain.KindValidation},
		{"duplicate id", &contentSvc.ReorderRequest{IDs: []string{a.ID, a.ID, b.ID}}, domain.KindValidation},
		{"unknown id", &contentSvc.ReorderRequest{IDs: []string{c.ID, a.ID, "nope"}}, domain.KindNotFound},
		{"partial list", &contentSvc.ReorderRequest{IDs: []string{c.ID, a.ID}}, domain.KindInvariantViolation},
		{"stale etag", &contentSvc.ReorderRequest{IDs: []string{c.ID, b.ID, a.ID}, ETag: "0123456789abcdef"}, domain.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.faqs.Reorder(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))

			items, err := f.faqs.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B", "C"}, questions(items))
		})
	}
}

func TestReorderWithCurrentETag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")

	items, err := f.faqs.List(ctx)
	require.NoError(t, err)
	tag := content.ETag(items)

	items, err = f.faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: []string{b.ID, a.ID}, ETag: tag})
	require.NoError(t, err)
	assert.NotEqual(t, tag, content.ETag(items))

	// the old tag no longer matches
	_, err = f.faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: []string{a.ID, b.ID}, ETag: tag})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// flakyRepo fails SetOrder after a number of successful calls
type flakyRepo struct {
	contentRepo.OrderedRepository[*content.FAQ]
	okCalls int
	calls   int
}

func (r *flakyRepo) SetOrder(ctx context.Context, id string, order int, updatedAt time.Time) error {
	r.calls++
	if r.calls > r.okCalls {
		return errors.New("disk I/O error")
	}
	return r.OrderedRepository.SetOrder(ctx, id, order, updatedAt)
}

func TestReorderRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var all []string
	for _, q := range []string{"A", "B", "C", "D"} {
		all = append(all, appendFAQ(t, f.faqs, q).ID)
	}

	tx := sqlite.NewTransactionManager(f.rc.DB, nil)
	reval := &revalidations{}
	m := ordering.NewManager[*content.FAQ](&flakyRepo{OrderedRepository: f.faqRepo, okCalls: 2}, tx, reval, nil)

	reversed := []string{all[3], all[2], all[1], all[0]}
	_, err := m.Reorder(ctx, &contentSvc.ReorderRequest{IDs: reversed})
	require.Error(t, err)
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	assert.True(t, domain.KindOf(err).Retryable())
	assert.Equal(t, 1, reval.count(), "failed mutations still revalidate")

	items, err := f.faqs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, questions(items))
	assertGapFree(t, items)
}

func TestCollectionItemCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := sqlite.NewTransactionManager(f.rc.DB, nil)

	faqs := ordering.NewManager(f.faqRepo, tx, nil, nil, ordering.WithMaxItems(3))
	var all []string
	for _, q := range []string{"A", "B", "C"} {
		all = append(all, appendFAQ(t, faqs, q).ID)
	}

	_, err := faqs.Append(ctx, &content.FAQ{Question: "D", Answer: "d"})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// a full collection can still be reordered
	items, err := faqs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: []string{all[2], all[1], all[0]}})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, questions(items))

	svcs := ordering.NewManager(sqlite.NewOrderedRepository(f.rc, tables.ServiceTable), tx, nil, nil, ordering.WithMaxItems(2))
	exam := appendService(t, svcs, "Eye exam")
	appendService(t, svcs, "Lens fitting")
	_, err = svcs.Remove(ctx, exam.ID)
	require.NoError(t, err)
	appendService(t, svcs, "Frame repair")

	_, err = svcs.Restore(ctx, exam.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	deleted, err := svcs.ListDeleted(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 1, "refused restore leaves the item removed")
}

func TestReorderListLongerThanCap(t *testing.T) {
	f := newFixture(t)
	tx := sqlite.NewTransactionManager(f.rc.DB, nil)
	m := ordering.NewManager(f.faqRepo, tx, nil, nil, ordering.WithMaxItems(2))

	_, err := m.Reorder(context.Background(), &contentSvc.ReorderRequest{IDs: []string{"a", "b", "c"}})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

// replayTx runs every transaction twice, rolling back the first attempt the
// way a serialization retry does
type replayTx struct {
	inner repositories.TransactionManager
}

var errReplay = errors.New("replay")

func (r replayTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	err := r.inner.ExecTx(ctx, func(txCtx context.Context) error {
		if err := fn(txCtx); err != nil {
			return err
		}
		return errReplay
	})
	if !errors.Is(err, errReplay) {
		return err
	}
	return r.inner.ExecTx(ctx, fn)
}

func TestReorderCountsMovesOfFinalAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")
	c := appendFAQ(t, f.faqs, "C")

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	m := ordering.NewManager(f.faqRepo, replayTx{inner: sqlite.NewTransactionManager(f.rc.DB, nil)}, nil, logger)

	items, err := m.Reorder(ctx, &contentSvc.ReorderRequest{IDs: []string{c.ID, b.ID, a.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, questions(items))

	var entry struct {
		Msg   string `json:"msg"`
		Moved int    `json:"moved"`
	}
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry.Msg == "collection reordered" {
			break
		}
	}
	assert.Equal(t, "collection reordered", entry.Msg)
	assert.Equal(t, 2, entry.Moved)
}

func TestRemoveScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")
	appendFAQ(t, f.faqs, "C")

	items, err := f.faqs.Remove(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, questions(items))
	assertGapFree(t, items)

	_, err = f.faqs.Remove(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveShiftsOnlyLaterItems(t *testing.T) {
	for k := range 5 {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			var before []string
			for i := range 5 {
				before = append(before, appendFAQ(t, f.faqs, fmt.Sprintf("Q%d", i)).ID)
			}

			items, err := f.faqs.Remove(ctx, before[k])
			require.NoError(t, err)

			want := append(append([]string{}, before[:k]...), before[k+1:]...)
			if diff := cmp.Diff(want, ids(items)); diff != "" {
				t.Fatalf("remaining ids (-want +got):\n%s", diff)
			}
			for i, item := range items {
				oldOrder := i
				if i >= k {
					oldOrder = i + 1
				}
				wantOrder := oldOrder
				if oldOrder > k {
					wantOrder = oldOrder - 1
				}
				assert.Equal(t, wantOrder, item.Base().Order)
			}
		})
	}
}

func TestSoftRemoveAndRestoreService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exam := appendService(t, f.svcs, "Eye exam")
	fitting := appendService(t, f.svcs, "Lens fitting")
	repair := appendService(t, f.svcs, "Frame repair")

	items, err := f.svcs.Remove(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fitting.ID, repair.ID}, ids(items))
	assertGapFree(t, items)

	deleted, err := f.svcs.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, exam.ID, deleted[0].Base().ID)
	assert.NotNil(t, deleted[0].Base().DeletedAt)

	_, err = f.svcs.Remove(ctx, exam.ID)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	items, err = f.svcs.Restore(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fitting.ID, repair.ID, exam.ID}, ids(items))
	assertGapFree(t, items)
	assert.Nil(t, items[2].Base().DeletedAt)

	_, err = f.svcs.Restore(ctx, exam.ID)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestRestoreHardCollection(t *testing.T) {
	f := newFixture(t)
	a := appendFAQ(t, f.faqs, "A")

	_, err := f.faqs.Restore(context.Background(), a.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateKeepsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appendFAQ(t, f.faqs, "A")
	b := appendFAQ(t, f.faqs, "B")

	updated, err := f.faqs.Update(ctx, b.ID, &content.FAQ{Question: "B2", Answer: "new"})
	require.NoError(t, err)
	faq := updated.(*content.FAQ)
	assert.Equal(t, "B2", faq.Question)
	assert.Equal(t, 1, faq.Order)
	assert.Equal(t, b.ID, faq.ID)
	assert.True(t, faq.CreatedAt.Equal(b.CreatedAt))

	_, err = f.faqs.Update(ctx, "missing", &content.FAQ{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRandomSequencesStayGapFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(42, 1024))

	for step := range 120 {
		items, err := f.svcs.List(ctx)
		require.NoError(t, err)

		switch op := rng.IntN(4); {
		case op == 0 || len(items) == 0:
			appendService(t, f.svcs, fmt.Sprintf("S%d", step))
		case op == 1:
			_, err = f.svcs.Remove(ctx, items[rng.IntN(len(items))].Base().ID)
			require.NoError(t, err)
		case op == 2:
			perm := ids(items)
			rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
			_, err = f.svcs.Reorder(ctx, &contentSvc.ReorderRequest{IDs: perm})
			require.NoError(t, err)
		default:
			deleted, err := f.svcs.ListDeleted(ctx)
			require.NoError(t, err)
			if len(deleted) > 0 {
				_, err = f.svcs.Restore(ctx, deleted[rng.IntN(len(deleted))].Base().ID)
				require.NoError(t, err)
			}
		}

		items, err = f.svcs.List(ctx)
		require.NoError(t, err)
		assertGapFree(t, items)
	}
}
