package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_ResumeIndex(t *testing.T) {
	idx := NewIndex("talentmatch:idx:resumes").
		Prefix("talentmatch:vec:resumes:").
		Tag("owner_id").
		TagWithOpts("skills", ",", false).
		VectorHNSW("vector", 1536, DistanceCosine, 16, 200).
		MustBuild()

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[1].TagSeparator != "," {
		t.Errorf("separator = %q, want ,", idx.Fields[1].TagSeparator)
	}
	v := idx.Fields[2]
	if v.VectorAlgo != VectorHNSW || v.VectorDim != 1536 || v.VectorM != 16 || v.VectorEFConstruct != 200 {
		t.Errorf("unexpected vector field: %+v", v)
	}
}

func TestIndexBuilder_Validation(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
		want string
	}{
		{"empty name", NewIndex("").Tag("a"), "index name is required"},
		{"bad name", NewIndex("bad name").Tag("a"), "invalid characters"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"duplicate", NewIndex("idx").Tag("a").Tag("a"), "duplicate field"},
		{"zero dim", NewIndex("idx").VectorHNSW("v", 0, DistanceCosine, 0, 0), "positive DIM"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.b.Build()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("idx").Prefix("p:").Tag("owner_id").VectorHNSW("vector", 4, DistanceCosine, 0, 0).MustBuild()
	want := "FT.CREATE idx ON HASH PREFIX p: SCHEMA owner_id TAG vector VECTOR HNSW"
	if got := idx.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"talentmatch:idx:jobs", "a-b_c"} {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "a b", "a/b"} {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
