package ai

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// barePatternMaxContentSize keeps bare pattern matching away from long
// outputs, where a model discussing rate limits would cause false positives.
const barePatternMaxContentSize = 500

var barePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you'?ve hit your limit`),
	regexp.MustCompile(`(?i)rate limit exceeded`),
	regexp.MustCompile(`(?i)rate limited`),
	regexp.MustCompile(`(?i)too many requests`),
}

// detectRateLimit reports whether short CLI output is a rate limit notice.
func detectRateLimit(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > barePatternMaxContentSize {
		return false
	}
	for _, p := range barePatterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

// parseRetryAfter reads a Retry-After header given either as delay seconds
// or as an HTTP date. It returns 0 when the header is absent or malformed.
func parseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
