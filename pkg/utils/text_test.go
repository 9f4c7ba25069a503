package utils

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"x", 0, "x"},
		{"Stewie côté", 9, "Stewie cô..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestHead(t *testing.T) {
	s := []int{1, 2, 3, 4}
	if got := Head(s, 2); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Head(s, 2) = %v", got)
	}
	if got := Head(s, 10); len(got) != 4 {
		t.Errorf("Head(s, 10) = %v", got)
	}
	if got := Head(s, 0); len(got) != 4 {
		t.Errorf("Head(s, 0) = %v", got)
	}
}
