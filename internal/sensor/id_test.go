package sensor

import (
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want ID
	}{
		{"SENSOR-12", "S-12"},
		{"sensor-3", "S-3"},
		{" SENSOR-7 ", "S-7"},
		{"S-19", "S-19"},
		{"SinkNode", "SinkNode"},
		{"ROUTER-1", "ROUTER-1"},
	}
	for _, tt := range tests {
		if got := Canonicalize(tt.raw); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"SENSOR-1", "S-40", "SinkNode", "Router", "sensor-005"} {
		once := Canonicalize(raw)
		twice := Canonicalize(string(once))
		if once != twice {
			t.Errorf("Canonicalize is not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestIsSensor(t *testing.T) {
	for _, raw := range []string{"SENSOR-1", "S-2", "sensor-10"} {
		if !IsSensor(raw) {
			t.Errorf("Expected %q to be a sensor", raw)
		}
	}
	for _, raw := range []string{"SinkNode", "SINKNODE-1", "Router", "ROUTER-2", "Node", "Broadcast", "", "S-", "SENSOR-x"} {
		if IsSensor(raw) {
			t.Errorf("Expected %q not to be a sensor", raw)
		}
	}
}

func TestSort_NumericOrder(t *testing.T) {
	ids := []ID{"S-19", "S-2", "S-5", "S-10"}
	Sort(ids)

	want := []ID{"S-2", "S-5", "S-10", "S-19"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("Sort() = %v, want %v", ids, want)
	}
	for i := 1; i < len(ids); i++ {
		a, _ := Index(ids[i-1])
		b, _ := Index(ids[i])
		if a >= b {
			t.Errorf("Order is not strictly increasing at %d: %v", i, ids)
		}
	}
}

func TestSort_NonSensorsLast(t *testing.T) {
	ids := []ID{"Router", "S-3", "Broadcast", "S-1"}
	Sort(ids)

	want := []ID{"S-1", "S-3", "Broadcast", "Router"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("Sort() = %v, want %v", ids, want)
	}
}
