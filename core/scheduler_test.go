package core

import (
	"testing"
	"time"
)

func TestTimerDispatchOrder(t *testing.T) {
	resetCore(t)

	var fired []int
	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			fired = append(fired, id)
			return SF_DONE
		}}
	}
	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))
	ScheduleTimer(mk(4, 200)) // same time as 2, fires after it

	SetTime(250)
	ProcessTimers()
	if len(fired) != 3 || fired[0] != 1 || fired[1] != 2 || fired[2] != 4 {
		t.Fatalf("fired %v, want [1 2 4]", fired)
	}

	SetTime(300)
	ProcessTimers()
	if len(fired) != 4 || fired[3] != 3 {
		t.Errorf("fired %v, want [1 2 4 3]", fired)
	}
}

func TestTimerWraparound(t *testing.T) {
	resetCore(t)
	SetTime(0xFFFFFF00)

	fired := false
	// 0x200 ticks ahead, past the wrap
	timer := &Timer{WakeTime: 0x100, Handler: func(*Timer) uint8 {
		fired = true
		return SF_DONE
	}}
	ScheduleTimer(timer)

	ProcessTimers()
	if fired {
		t.Fatal("timer fired before its wake time")
	}

	// The counter wraps past zero on the way to the wake time
	AdvanceTime(0x100)
	ProcessTimers()
	if fired {
		t.Fatal("timer fired early after counter wrap")
	}
	AdvanceTime(0x100)
	ProcessTimers()
	if !fired {
		t.Error("timer did not fire after counter wrap")
	}
}

func TestTimerReschedule(t *testing.T) {
	resetCore(t)

	count := 0
	timer := &Timer{WakeTime: 10}
	timer.Handler = func(tm *Timer) uint8 {
		count++
		if count == 3 {
			return SF_DONE
		}
		tm.WakeTime += 10
		return SF_RESCHEDULE
	}
	ScheduleTimer(timer)

	for now := uint32(0); now <= 100; now += 10 {
		SetTime(now)
		ProcessTimers()
	}
	if count != 3 {
		t.Errorf("handler ran %d times, want 3", count)
	}
	if TimerPending(timer) {
		t.Error("finished timer still pending")
	}
}

func TestCancelAndMoveTimer(t *testing.T) {
	resetCore(t)

	fired := 0
	timer := &Timer{WakeTime: 50, Handler: func(*Timer) uint8 {
		fired++
		return SF_DONE
	}}
	ScheduleTimer(timer)
	if !TimerPending(timer) {
		t.Fatal("timer should be pending")
	}

	// Scheduling a pending timer moves it instead of linking it twice
	timer.WakeTime = 80
	ScheduleTimer(timer)
	SetTime(60)
	ProcessTimers()
	if fired != 0 {
		t.Fatal("moved timer fired at its old wake time")
	}

	CancelTimer(timer)
	SetTime(100)
	ProcessTimers()
	if fired != 0 {
		t.Error("cancelled timer fired")
	}
	CancelTimer(timer) // not pending, must be harmless
}

func TestTimerConversions(t *testing.T) {
	if got := TimerFromUS(250); got != 250 {
		t.Errorf("TimerFromUS(250) = %d", got)
	}
	if got := TimerToUS(1000); got != 1000 {
		t.Errorf("TimerToUS(1000) = %d", got)
	}
	if got := TimerFromDuration(16 * time.Millisecond); got != 16000 {
		t.Errorf("TimerFromDuration(16ms) = %d", got)
	}
	if got := TimerFromDuration(2500 * time.Nanosecond); got != 2 {
		t.Errorf("TimerFromDuration(2.5us) = %d, want truncation to 2", got)
	}
}

func TestDelayMS(t *testing.T) {
	resetCore(t)
	var slept time.Duration
	SetDelayFunc(func(d time.Duration) { slept += d })
	DelayMS(120)
	if slept != 120*time.Millisecond {
		t.Errorf("slept %v, want 120ms", slept)
	}
}
