package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"llama3.2:1b":    "llama3-2_1b",
		"  Model Two  ":  "model-two",
		"Model--Three!!": "model-three",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(-0.5); got != 0 {
		t.Fatalf("Clamp01(-0.5) = %v", got)
	}
	if got := Clamp01(1.5); got != 1 {
		t.Fatalf("Clamp01(1.5) = %v", got)
	}
	if got := Clamp01(0.25); got != 0.25 {
		t.Fatalf("Clamp01(0.25) = %v", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateRunes("abcdefgh", 4); got != "abcd…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected contents: %q", data)
	}
}
