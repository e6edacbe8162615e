package workbook

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// invalidSheetChars are rejected in sheet names by Excel and Google Sheets.
var invalidSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// UniqueNames makes every name unique, case-insensitively, among itself and
// the already taken names. Collisions get a " (n)" suffix, truncating the base
// so that the result still fits maxLen runes. Characters invalid in sheet
// names are replaced and blank names become "Sheet".
func UniqueNames(names []string, taken []string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxSheetNameLength
	}

	used := make(map[string]struct{}, len(names)+len(taken))
	for _, t := range taken {
		used[strings.ToLower(t)] = struct{}{}
	}

	out := make([]string, len(names))
	for i, name := range names {
		base := strings.TrimSpace(invalidSheetChars.Replace(name))
		if base == "" {
			base = "Sheet"
		}
		base = TruncateName(base, maxLen)

		candidate := base
		for n := 2; ; n++ {
			if _, ok := used[strings.ToLower(candidate)]; !ok {
				break
			}
			suffix := fmt.Sprintf(" (%d)", n)
			keep := maxLen - utf8.RuneCountInString(suffix)
			candidate = TruncateName(base, max(keep, 1)) + suffix
		}

		used[strings.ToLower(candidate)] = struct{}{}
		out[i] = candidate
	}
	return out
}
