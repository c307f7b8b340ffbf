package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogTailLines is the number of log lines read per refresh.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// DefaultFlashTimeout is how long a flash message stays on screen.
	DefaultFlashTimeout = 5 * time.Second
)

// listWidth returns the width of the list pane in split layouts.
func listWidth(total int) int {
	if total >= LayoutExtraWideWidth {
		return total * 40 / 100
	}
	return total * 55 / 100
}
