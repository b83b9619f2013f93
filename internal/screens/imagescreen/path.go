package imagescreen

import (
	"os"
	"path/filepath"
	"strings"
)

// expandHome resolves a leading ~ and strips the quotes terminals add when
// a file is dragged in.
func expandHome(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
