package prez

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
)

// DefaultVersion is the process-wide deck version used when VersionedName is
// called without an explicit version.
const DefaultVersion = 19

// VersionedName returns the versioned output filename for base, like
// "report_v007.pptx". The version is zero-padded to three digits and defaults
// to DefaultVersion. A trailing ".pptx" on base is stripped before the suffix
// is appended.
func VersionedName(base string, version ...int) string {
	v := DefaultVersion
	if len(version) > 0 {
		v = version[0]
	}
	base = strings.TrimSuffix(base, ".pptx")
	return fmt.Sprintf("%s_v%03d.pptx", base, v)
}

// LatestVersioned returns the path of the newest versioned output for base
// in dir, judged by the embedded version number.
func LatestVersioned(dir, base string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	base = strings.TrimSuffix(base, ".pptx")
	re, err := regexp.Compile("^" + regexp.QuoteMeta(base) + `_v(\d+)\.pptx$`)
	if err != nil {
		return "", fmt.Errorf("failed to compile filename pattern: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}
	name := ""
	latest := -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
			name = e.Name()
		}
	}
	if name == "" {
		return "", fmt.Errorf("no versioned output found for %q in %s", base, dir)
	}
	return filepath.Join(dir, name), nil
}
