// Package logtail reads the end of marquee's own log file for the Logs view.
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines of a file in one pass
// with O(maxLines) memory, returning lines in chronological order:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file is not an error; the log is created lazily on first write.
//
// # Parsing
//
// The logging package writes one JSON object per line. Parse turns a line
// into an Entry holding the timestamp, level, component and message, with
// every other key collected into Fields. Lines that are not JSON (a panic
// trace, a truncated write) pass through untouched as the entry message.
//
// Entry.String renders a compact plain-text line; styling is left to the UI.
package logtail
