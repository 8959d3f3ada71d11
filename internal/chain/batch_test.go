package chain

import (
	"reflect"
	"testing"
)

func TestSplitBatches(t *testing.T) {
	got, err := SplitBatches([]string{"0x1", "0x2", "0x3", "0x4", "0x5"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"0x1", "0x2"}, {"0x3", "0x4"}, {"0x5"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batches mismatch: %+v != %+v", got, want)
	}
}

func TestSplitBatchesSingle(t *testing.T) {
	got, err := SplitBatches([]string{"0x1"}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"0x1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batches mismatch: %+v != %+v", got, want)
	}
}

func TestSplitBatchesInvalid(t *testing.T) {
	if _, err := SplitBatches([]string{"0x1"}, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
	got, err := SplitBatches(nil, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no batches, got %v (%v)", got, err)
	}
}
