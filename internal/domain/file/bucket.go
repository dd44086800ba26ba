package file

import (
	"net"
	"regexp"
	"strings"
)

var bucketNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidBucketName applies the S3 naming rules: 3 to 63 lowercase letters,
// digits, dots and hyphens, starting and ending alphanumeric, no empty or
// hyphen-adjacent labels, not an IPv4 address.
func ValidBucketName(name string) bool {
	if !bucketNameRe.MatchString(name) {
		return false
	}
	for _, bad := range []string{"..", ".-", "-."} {
		if strings.Contains(name, bad) {
			return false
		}
	}
	if strings.HasPrefix(name, "xn--") {
		return false
	}
	return net.ParseIP(name) == nil
}
