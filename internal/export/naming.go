// Package export cuts a clip's segments into standalone files in the OUT
// folder and reports progress over the job bus.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sanitizeLabel reduces a free-form segment label to a filename-safe suffix.
// Anything outside [a-z0-9_-] becomes an underscore; runs collapse.
func sanitizeLabel(label string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// outputName builds the export filename for one segment:
// {base}__trimNN.mp4, or {base}__trimNN__{label}.mp4 with a label.
// NN is the 1-based segment number, zero-padded to two digits.
func outputName(originalName string, segmentNum int, label string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	name := fmt.Sprintf("%s__trim%02d", base, segmentNum)
	if clean := sanitizeLabel(label); clean != "" {
		name += "__" + clean
	}
	return name + ".mp4"
}

// uniquePath appends _vN before the extension until the path is free, so a
// re-export never overwrites an earlier cut.
func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for v := 1; ; v++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_v%d%s", base, v, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
