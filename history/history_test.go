package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedDate = time.Date(2025, 11, 23, 10, 30, 0, 0, time.UTC)

func TestAdd_NewestFirst(t *testing.T) {
	s := NewStore(Config{})
	s.Add("a", NewRecord("one", "uno", "Spanish", fixedDate))
	s.Add("a", NewRecord("two", "deux", "French", fixedDate.Add(time.Minute)))
	s.Add("a", NewRecord("three", "셋", "Korean", fixedDate.Add(2*time.Minute)))

	want := []Record{
		{Original: "three", Translated: "셋", TargetLanguageName: "Korean", Date: fixedDate.Add(2 * time.Minute)},
		{Original: "two", Translated: "deux", TargetLanguageName: "French", Date: fixedDate.Add(time.Minute)},
		{Original: "one", Translated: "uno", TargetLanguageName: "Spanish", Date: fixedDate},
	}
	got := s.List("a")
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Record{}, "ID")); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Len("a"))
}

func TestRecordsHaveDistinctIDs(t *testing.T) {
	a := NewRecord("x", "y", "Spanish", fixedDate)
	b := NewRecord("x", "y", "Spanish", fixedDate)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(Config{})
	s.Add("a", NewRecord("one", "uno", "Spanish", fixedDate))
	s.SetScreen("a", Screen{Input: "one", Output: "uno", Language: "es"})

	assert.Empty(t, s.List("b"))
	assert.Equal(t, Screen{}, s.Screen("b"))
	assert.Equal(t, "uno", s.Screen("a").Output)
}

func TestList_ReturnsCopy(t *testing.T) {
	s := NewStore(Config{})
	s.Add("a", NewRecord("one", "uno", "Spanish", fixedDate))

	got := s.List("a")
	got[0].Translated = "mutated"
	assert.Equal(t, "uno", s.List("a")[0].Translated)
}

func TestClear(t *testing.T) {
	s := NewStore(Config{})
	s.Add("a", NewRecord("one", "uno", "Spanish", fixedDate))
	s.Add("b", NewRecord("two", "dos", "Spanish", fixedDate))

	s.Clear("a")
	assert.Empty(t, s.List("a"))
	assert.Len(t, s.List("b"), 1)
}

func TestMaxRecords(t *testing.T) {
	s := NewStore(Config{MaxRecords: 2})
	for i := range 5 {
		s.Add("a", NewRecord(fmt.Sprint(i), "", "Spanish", fixedDate))
	}
	got := s.List("a")
	require.Len(t, got, 2)
	assert.Equal(t, "4", got[0].Original)
	assert.Equal(t, "3", got[1].Original)
}

func TestDrop(t *testing.T) {
	s := NewStore(Config{})
	s.Add("a", NewRecord("one", "uno", "Spanish", fixedDate))
	s.SetScreen("a", Screen{Output: "uno"})

	s.Drop("a")
	assert.Empty(t, s.List("a"))
	assert.Equal(t, Screen{}, s.Screen("a"))
	assert.Equal(t, 0, s.Sessions())
}

func TestPrune(t *testing.T) {
	now := fixedDate
	s := NewStore(Config{})
	s.now = func() time.Time { return now }

	s.Add("old", NewRecord("one", "uno", "Spanish", now))
	now = now.Add(30 * time.Minute)
	s.Add("fresh", NewRecord("two", "dos", "Spanish", now))
	now = now.Add(45 * time.Minute)

	assert.Equal(t, 0, s.Prune(0))
	assert.Equal(t, 1, s.Prune(time.Hour))
	assert.Empty(t, s.List("old"))
	assert.Len(t, s.List("fresh"), 1)
}

func TestConcurrentAdds(t *testing.T) {
	s := NewStore(Config{})
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add("a", NewRecord(fmt.Sprint(i), "", "Spanish", fixedDate))
			_ = s.List("a")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len("a"))
}
