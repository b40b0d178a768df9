package service

import (
	"testing"
	"time"
)

func TestDriftMonitor_RunsOnInterval(t *testing.T) {
	reflection, _ := newReflectionFixture(t)

	m := NewDriftMonitor(reflection, testLogger())
	m.SetInterval(10 * time.Millisecond)
	m.Start()

	deadline := time.Now().Add(2 * time.Second)
	for len(reflection.History()) < 2 {
		if time.Now().After(deadline) {
			m.Stop()
			t.Fatalf("monitor produced %d checks, want at least 2", len(reflection.History()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	m.Stop()
}

func TestDriftMonitor_SetIntervalIgnoresNonPositive(t *testing.T) {
	reflection, _ := newReflectionFixture(t)
	m := NewDriftMonitor(reflection, testLogger())

	m.SetInterval(0)
	if m.interval != defaultDriftCheckInterval {
		t.Errorf("interval = %v, want default %v", m.interval, defaultDriftCheckInterval)
	}

	m.SetInterval(-time.Hour)
	if m.interval != defaultDriftCheckInterval {
		t.Errorf("interval = %v, want default %v", m.interval, defaultDriftCheckInterval)
	}
}

func TestDriftMonitor_StopIsClean(t *testing.T) {
	reflection, _ := newReflectionFixture(t)
	m := NewDriftMonitor(reflection, testLogger())
	m.SetInterval(time.Hour)
	m.Start()

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
