package flick

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.After(ms(30), func() { got = append(got, "c") })
	s.After(ms(10), func() { got = append(got, "a") })
	s.After(ms(20), func() { got = append(got, "b1") })
	s.After(ms(20), func() { got = append(got, "b2") }) // ties fire in scheduling order

	s.Advance(ms(25))
	if diff := cmp.Diff([]string{"a", "b1", "b2"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	s.Advance(ms(100))
	if len(got) != 4 || s.Pending() != 0 {
		t.Errorf("got = %v, pending = %d", got, s.Pending())
	}
}

func TestSchedulerNowIsDeadlineInsideCallback(t *testing.T) {
	s := NewScheduler()
	var seen []time.Duration
	s.After(ms(7), func() { seen = append(seen, s.Now()) })
	s.Every(ms(10), func() { seen = append(seen, s.Now()) })

	s.Advance(ms(35))
	if diff := cmp.Diff([]time.Duration{ms(7), ms(10), ms(20), ms(30)}, seen); diff != "" {
		t.Errorf("Now() mismatch (-want +got):\n%s", diff)
	}
	if s.Now() != ms(35) {
		t.Errorf("Now() = %v after Advance, want 35ms", s.Now())
	}
}

func TestSchedulerEveryAndStop(t *testing.T) {
	s := NewScheduler()
	n := 0
	var tm *Timer
	tm = s.Every(ms(10), func() {
		n++
		if n == 3 {
			tm.Stop()
		}
	})

	s.Advance(ms(100))
	if n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
	if tm.Active() || s.Pending() != 0 {
		t.Errorf("Active() = %v, Pending() = %d", tm.Active(), s.Pending())
	}
	tm.Stop() // second stop is a no-op
}

func TestSchedulerStopBeforeDeadline(t *testing.T) {
	s := NewScheduler()
	fired := false
	tm := s.After(ms(10), func() { fired = true })
	if !tm.Active() {
		t.Fatal("timer inactive before firing")
	}
	tm.Stop()
	s.Advance(ms(20))
	if fired {
		t.Error("stopped timer fired")
	}

	var nilTimer *Timer
	nilTimer.Stop()
	if nilTimer.Active() {
		t.Error("nil timer reported active")
	}
}

func TestSchedulerBackwardsIgnored(t *testing.T) {
	s := NewScheduler()
	s.Advance(ms(50))
	s.Advance(ms(20))
	if s.Now() != ms(50) {
		t.Errorf("Now() = %v, want 50ms", s.Now())
	}
	s.AdvanceBy(ms(5))
	if s.Now() != ms(55) {
		t.Errorf("Now() = %v after AdvanceBy, want 55ms", s.Now())
	}
}

func TestSchedulerCallbackSchedulesMore(t *testing.T) {
	s := NewScheduler()
	var got []time.Duration
	s.After(ms(10), func() {
		got = append(got, s.Now())
		s.After(ms(5), func() { got = append(got, s.Now()) })
	})
	s.Advance(ms(15))
	if diff := cmp.Diff([]time.Duration{ms(10), ms(15)}, got); diff != "" {
		t.Errorf("chained timers mismatch (-want +got):\n%s", diff)
	}
}
