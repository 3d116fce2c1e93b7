package clock

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	clk := RealClock{}
	before := time.Now()
	now := clk.Now()
	if now.Before(before) || now.After(time.Now()) {
		t.Errorf("Now() = %v, outside the call window", now)
	}
}

func TestRealClockNewTicker(t *testing.T) {
	ticker := RealClock{}.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(500 * time.Millisecond):
		t.Error("ticker did not fire")
	}
}

func TestMockClockAdvanceFiresTicker(t *testing.T) {
	clk := NewMockClock(time.Unix(0, 0))
	ticker := clk.NewTicker(time.Second)

	clk.Advance(500 * time.Millisecond)
	select {
	case tick := <-ticker.C():
		t.Fatalf("tick %v before a full period elapsed", tick)
	default:
	}

	clk.Advance(500 * time.Millisecond)
	select {
	case <-ticker.C():
	default:
		t.Fatal("no tick after a full period")
	}
}

func TestMockClockAdvanceDeliversOneTickPerPeriod(t *testing.T) {
	clk := NewMockClock(time.Unix(0, 0))
	ticker := clk.NewTicker(time.Second)
	clk.Advance(3 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case <-ticker.C():
		default:
			t.Fatalf("missing tick %d of 3", i+1)
		}
	}
	select {
	case tick := <-ticker.C():
		t.Fatalf("extra tick %v", tick)
	default:
	}
}

func TestMockTickerStop(t *testing.T) {
	clk := NewMockClock(time.Unix(0, 0))
	ticker := clk.NewTicker(time.Second)
	ticker.Stop()
	clk.Advance(5 * time.Second)
	select {
	case tick := <-ticker.C():
		t.Fatalf("tick %v after Stop", tick)
	default:
	}
}

func TestMockClockNow(t *testing.T) {
	start := time.Unix(100, 0)
	clk := NewMockClock(start)
	clk.Advance(time.Minute)
	if got, want := clk.Now(), start.Add(time.Minute); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}
