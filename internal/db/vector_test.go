package db

import "testing"

func TestEncodeDecodeVector(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	data := EncodeVector(in)
	if len(data) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(data))
	}
	out, err := DecodeVector(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("[%d]: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated data")
	}
}
