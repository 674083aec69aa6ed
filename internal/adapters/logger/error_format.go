package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// errorEntry is one link of an error chain, ready for rendering.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain outward-in.
//
// zerr errors contribute their own message plus attached metadata; the
// first non-zerr error contributes its full Error() string and ends the
// walk, since standard errors embed their causes in that string already.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry

	current := err
	for current != nil {
		if zErr, ok := current.(*zerr.Error); ok {
			entries = append(entries, errorEntry{
				Message:  zErr.Message(),
				Metadata: zErr.Metadata(),
			})
			current = errors.Unwrap(current)
			continue
		}

		entries = append(entries, errorEntry{Message: current.Error()})
		break
	}

	return entries
}

// formatErrorEntries renders collected entries hierarchically:
//
//	Error: <outermost>
//
//	  Caused by:
//	    → <cause>
func formatErrorEntries(entries []errorEntry) []string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		suffix := formatMetadata(entry.Metadata)

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0]+suffix)
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0]+suffix)
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return lines
}

// formatMetadata renders metadata as " (k1=v1 k2=v2)" with sorted keys.
func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return " (" + strings.Join(parts, " ") + ")"
}
