package services

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxPathNameLen = 100

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// displayName keeps what the user called the file, minus any directory part
// and control characters.
func displayName(original string) string {
	s := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, original)
	s = strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	if s == "" {
		return ""
	}

	s = path.Base(s)
	if s == "." || s == ".." || s == "/" {
		return ""
	}
	return s
}

// storagePath: "<user>/YYYY/MM/DD/<ts-nanos>-<rand>/<safe-name>.ext".
// The random component keeps two uploads in the same nanosecond apart.
func storagePath(userID, fileName string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf(
		"%s/%04d/%02d/%02d/%d-%s/%s",
		pathSegment(userID),
		now.Year(), int(now.Month()), now.Day(),
		now.UnixNano(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		sanitizeFileName(fileName),
	)
}

// pathSegment keeps a user id from introducing extra path levels.
func pathSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// sanitizeFileName folds a name into lowercase ASCII: diacritics dropped,
// separators collapsed to a single '-'.
func sanitizeFileName(original string) string {
	s := displayName(original)
	if s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, path.Ext(s))
	if !isASCIIExt(ext) {
		ext = ""
	}

	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+len(ext) > maxPathNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isASCIIExt(ext string) bool {
	for _, r := range strings.TrimPrefix(ext, ".") {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
