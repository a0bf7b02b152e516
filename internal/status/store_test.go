package status

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreGetMiss(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("REF-nope")
	require.False(t, ok)
}

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	s.Put(Record{ReferenceID: "REF123", Status: StatusSucceeded, Amount: "50000"})

	rec, ok := s.Get("REF123")
	require.True(t, ok)
	require.Equal(t, StatusSucceeded, rec.Status)
	require.Equal(t, "50000", rec.Amount)
	require.True(t, rec.Processed)
	require.False(t, rec.ReceivedAt.IsZero())
}

func TestStoreLastWriteWins(t *testing.T) {
	s := NewStore()
	s.Put(Record{ReferenceID: "REF123", Status: StatusPending})
	s.Put(Record{ReferenceID: "REF123", Status: StatusSucceeded})

	rec, ok := s.Get("REF123")
	require.True(t, ok)
	require.Equal(t, StatusSucceeded, rec.Status)
	require.Equal(t, 1, s.Len())
}

func TestStoreDuplicatePutIdempotent(t *testing.T) {
	s := NewStore()
	rec := Record{ReferenceID: "REF123", Status: StatusSucceeded, Amount: "50000"}
	s.Put(rec)
	first, _ := s.Get("REF123")
	s.Put(rec)

	second, ok := s.Get("REF123")
	require.True(t, ok)
	require.Equal(t, 1, s.Len())
	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.Amount, second.Amount)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		id := fmt.Sprintf("REF%d", i%10)
		go func() {
			defer wg.Done()
			s.Put(Record{ReferenceID: id, Status: StatusPending})
		}()
		go func() {
			defer wg.Done()
			s.Get(id)
		}()
	}
	wg.Wait()
	require.Equal(t, 10, s.Len())
}

func TestStorePruneOlderThan(t *testing.T) {
	s := NewStore()
	s.Put(Record{ReferenceID: "REFold"})
	old, _ := s.Get("REFold")
	old.ReceivedAt = time.Now().Add(-2 * time.Hour)
	s.mu.Lock()
	s.records["REFold"] = old
	s.mu.Unlock()
	s.Put(Record{ReferenceID: "REFnew"})

	require.Equal(t, 1, s.PruneOlderThan(time.Hour))
	_, ok := s.Get("REFold")
	require.False(t, ok)
	_, ok = s.Get("REFnew")
	require.True(t, ok)
}

func TestRecordTerminal(t *testing.T) {
	require.True(t, Record{Status: StatusSucceeded}.Terminal())
	require.True(t, Record{Status: StatusExpired}.Terminal())
	require.False(t, Record{Status: StatusPending}.Terminal())
	require.False(t, Record{Status: "settlement_review"}.Terminal())
}
