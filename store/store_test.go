package store

import (
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/geomag-engine/model"
)

func testSet(t *testing.T, name string, epoch float64) *model.CoefficientSet {
	t.Helper()
	set, err := model.NewCoefficientSet(name, epoch, epoch, epoch+5, []model.Coefficient{
		{Degree: 1, Order: 0, G: -29404.5},
		{Degree: 1, Order: 1, G: -1450.7, H: 4652.9},
	})
	if err != nil {
		t.Fatalf("NewCoefficientSet: %v", err)
	}
	return set
}

func TestNewRejectsNil(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should fail")
	}
}

func TestCurrentReturnsInitialSet(t *testing.T) {
	set := testSet(t, "A-2020", 2020)
	s, err := New(set)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Current(); got != set {
		t.Fatalf("Current() = %p, want %p", got, set)
	}
}

func TestSwapReplacesAndReturnsPrevious(t *testing.T) {
	old := testSet(t, "A-2020", 2020)
	next := testSet(t, "B-2025", 2025)
	s, err := New(old)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prev, err := s.Swap(next)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if prev != old {
		t.Fatalf("Swap returned %p, want previous set %p", prev, old)
	}
	if got := s.Current(); got != next {
		t.Fatalf("Current() after Swap = %p, want %p", got, next)
	}

	if _, err := s.Swap(nil); err == nil {
		t.Fatal("Swap(nil) should fail")
	}
	if got := s.Current(); got != next {
		t.Fatal("failed Swap must not change the active set")
	}
}

func TestSubscribersSeeSwaps(t *testing.T) {
	s, err := New(testSet(t, "A-2020", 2020))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })
	s.Subscribe(nil) // ignored

	if _, err := s.Swap(testSet(t, "B-2025", 2025)); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Name != "B-2025" || events[0].Epoch != 2025 || events[0].MaxDegree != 1 {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestConcurrentReadersDuringSwap(t *testing.T) {
	s, err := New(testSet(t, "A-2020", 2020))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if set := s.Current(); set == nil {
					t.Error("Current() returned nil during swap")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if _, err := s.Swap(testSet(t, "B-2025", 2025)); err != nil {
			t.Fatalf("Swap: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	close(done)
	wg.Wait()
}
