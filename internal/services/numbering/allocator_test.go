package numbering

import (
	"context"
	"sync"
	"testing"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequences mimics the atomic DB upsert with a mutex-guarded map.
type fakeSequences struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequences() *fakeSequences {
	return &fakeSequences{counters: make(map[string]int64)}
}

func (f *fakeSequences) Next(_ context.Context, ownerType string, ownerID uuid.UUID, documentClass string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ownerType + "/" + ownerID.String() + "/" + documentClass
	f.counters[key]++
	return f.counters[key], nil
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-0001", Format("INV", 1))
	assert.Equal(t, "ST-0042", Format("ST", 42))
	assert.Equal(t, "INV-12345", Format("INV", 12345))
}

func TestAllocate_FirstNumber(t *testing.T) {
	a := NewAllocator(newFakeSequences())
	n, err := a.Allocate(context.Background(), CompanyIdentity(uuid.New()), models.KindInvoice, "INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", n)
}

func TestAllocate_MissingPrefix(t *testing.T) {
	a := NewAllocator(newFakeSequences())
	_, err := a.Allocate(context.Background(), CompanyIdentity(uuid.New()), models.KindInvoice, "")
	assert.ErrorIs(t, err, ErrNoPrefix)
}

// N concurrent allocations against one identity must yield N distinct,
// gapless numbers.
func TestAllocate_ConcurrentUniqueness(t *testing.T) {
	const n = 100
	a := NewAllocator(newFakeSequences())
	identity := CompanyIdentity(uuid.New())

	type result struct {
		number string
		err    error
	}
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := a.Allocate(context.Background(), identity, models.KindInvoice, "INV")
			results <- result{number: number, err: err}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for res := range results {
		require.NoError(t, res.err)
		assert.False(t, seen[res.number], "duplicate number %s", res.number)
		seen[res.number] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen[Format("INV", 1)])
	assert.True(t, seen[Format("INV", n)])
}

// Identities never share a sequence, even with the same prefix.
func TestAllocate_IdentityIsolation(t *testing.T) {
	a := NewAllocator(newFakeSequences())
	idA := CompanyIdentity(uuid.New())
	idB := ContactIdentity(uuid.New())

	nA, err := a.Allocate(context.Background(), idA, models.KindInvoice, "INV")
	require.NoError(t, err)
	nB, err := a.Allocate(context.Background(), idB, models.KindInvoice, "INV")
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", nA)
	assert.Equal(t, "INV-0001", nB)

	// Invoice and cancellation classes are independent too.
	nC, err := a.Allocate(context.Background(), idA, models.KindCancellation, "ST")
	require.NoError(t, err)
	assert.Equal(t, "ST-0001", nC)
}
