package checksum

import "testing"

func TestSum(t *testing.T) {
	// SHA-256 of the empty input.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != want {
		t.Errorf("Sum(nil) = %s, want %s", got, want)
	}
}

func TestJSON(t *testing.T) {
	a, err := JSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	b, err := JSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if a != b {
		t.Error("map key order changed the checksum")
	}
	if _, err := JSON(func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{`abc`, true},
		{`W/"abc"`, true},
		{`"xyz", "abc"`, true},
		{`*`, true},
		{`"xyz"`, false},
		{``, false},
		{`""`, false},
	}
	for _, tt := range tests {
		if got := Matches(tt.header, "abc"); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
	if ETag("abc") != `"abc"` {
		t.Errorf("ETag = %s", ETag("abc"))
	}
}
