package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	entry := Parse(`{"level":"warn","component":"library","server":3,"time":"2025-10-08T21:01:05Z","message":"sync failed"}`)
	if entry.Level != "warn" || entry.Component != "library" || entry.Message != "sync failed" {
		t.Fatalf("Parse = %#v, want warn/library/sync failed", entry)
	}
	if entry.Time.IsZero() {
		t.Fatalf("Time is zero, want parsed timestamp")
	}
	if entry.Fields["server"] != "3" {
		t.Fatalf("Fields = %v, want server=3", entry.Fields)
	}
	if got := entry.String(); !strings.Contains(got, "WARN [library] – sync failed server=3") {
		t.Fatalf("String() = %q, want level, component, message and field", got)
	}
}

func TestParse_PlainText(t *testing.T) {
	for _, line := range []string{"", "panic: boom", "{broken"} {
		entry := Parse(line)
		if entry.Message != line || entry.String() != line {
			t.Errorf("Parse(%q) = %#v, want raw passthrough", line, entry)
		}
	}
}
