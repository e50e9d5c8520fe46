package scanner

import (
	"testing"
	"time"
)

var debounceBase = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

func TestDebouncer_FirstSightingEmits(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	if !d.ShouldEmit("payload-a", debounceBase) {
		t.Error("First sighting should emit")
	}
}

func TestDebouncer_SuppressesWithinInterval(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	if !d.ShouldEmit("payload-a", debounceBase) {
		t.Fatal("First sighting should emit")
	}

	if d.ShouldEmit("payload-a", debounceBase.Add(time.Second)) {
		t.Error("Sighting 1s after emission should be suppressed")
	}
	if d.ShouldEmit("payload-a", debounceBase.Add(1900*time.Millisecond)) {
		t.Error("Sighting just inside the window should be suppressed")
	}
}

func TestDebouncer_ReemitsAfterInterval(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	if !d.ShouldEmit("payload-a", debounceBase) {
		t.Fatal("First sighting should emit")
	}
	if d.ShouldEmit("payload-a", debounceBase.Add(time.Second)) {
		t.Error("Sighting within the window should be suppressed")
	}
	if !d.ShouldEmit("payload-a", debounceBase.Add(2100*time.Millisecond)) {
		t.Error("Sighting after the window should emit again")
	}
}

func TestDebouncer_BoundaryEmits(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	d.ShouldEmit("payload-a", debounceBase)

	// Exactly at the interval counts as outside the window
	if !d.ShouldEmit("payload-a", debounceBase.Add(2*time.Second)) {
		t.Error("Sighting exactly at the interval should emit")
	}
}

func TestDebouncer_SuppressionDoesNotExtendWindow(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	d.ShouldEmit("payload-a", debounceBase)

	// A suppressed sighting at 1.5s must not restart the clock
	if d.ShouldEmit("payload-a", debounceBase.Add(1500*time.Millisecond)) {
		t.Fatal("Sighting at 1.5s should be suppressed")
	}
	if !d.ShouldEmit("payload-a", debounceBase.Add(2200*time.Millisecond)) {
		t.Error("Window runs from the last emission, not the last sighting")
	}
}

func TestDebouncer_IndependentPayloads(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	if !d.ShouldEmit("payload-a", debounceBase) {
		t.Error("First payload should emit")
	}
	if !d.ShouldEmit("payload-b", debounceBase) {
		t.Error("A different payload seen at the same instant should emit")
	}

	// Each payload keeps its own window
	if d.ShouldEmit("payload-a", debounceBase.Add(time.Second)) {
		t.Error("payload-a should still be suppressed")
	}
	if !d.ShouldEmit("payload-b", debounceBase.Add(2*time.Second)) {
		t.Error("payload-b should re-emit after its own window")
	}
}

func TestDebouncer_ZeroIntervalEmitsEverything(t *testing.T) {
	d := NewDebouncer(0)

	for i := 0; i < 3; i++ {
		if !d.ShouldEmit("payload-a", debounceBase) {
			t.Errorf("Sighting %d should emit with a zero interval", i)
		}
	}
}

func TestDebouncer_SuppressionChangesNothing(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	d.ShouldEmit("payload-a", debounceBase)

	// Repeated suppressed sightings leave the table untouched
	for i := 1; i <= 5; i++ {
		if d.ShouldEmit("payload-a", debounceBase.Add(time.Duration(i)*100*time.Millisecond)) {
			t.Fatalf("Sighting %d should be suppressed", i)
		}
	}

	if d.Len() != 1 {
		t.Errorf("Expected 1 tracked payload, got %d", d.Len())
	}
	if !d.ShouldEmit("payload-a", debounceBase.Add(2*time.Second)) {
		t.Error("Original window should still apply")
	}
}

func TestDebouncer_Len(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	if d.Len() != 0 {
		t.Errorf("Expected empty table, got %d", d.Len())
	}

	d.ShouldEmit("payload-a", debounceBase)
	d.ShouldEmit("payload-b", debounceBase)
	d.ShouldEmit("payload-a", debounceBase.Add(3*time.Second))

	if d.Len() != 2 {
		t.Errorf("Expected 2 tracked payloads, got %d", d.Len())
	}
}
