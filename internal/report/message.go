package report

import (
	"regexp"
	"strings"
)

var (
	severalRE     = regexp.MustCompile(`(?i)several failures occurred:`)
	severalItemRE = regexp.MustCompile(`(?m)\d+\)[ \t]*(.+)`)
	skippedInRE   = regexp.MustCompile(`(?is)skipped in.+?(?:teardown|setup):`)
	phaseFailedRE = regexp.MustCompile(`(?is)(?:setup|teardown) failed:(.*)`)
)

// SplitMessages normalizes a failure or skip message attribute into
// individual failure messages.  Robot Framework wraps messages in a
// few formats: numbered "Several failures occurred" lists, "skipped
// in teardown/setup" wrappers carrying an earlier message, and plain
// "setup/teardown failed" prefixes.
func SplitMessages(msg string) []string {
	switch {
	case severalRE.MatchString(msg):
		var msgs []string
		for _, m := range severalItemRE.FindAllStringSubmatch(msg, -1) {
			if s := strings.TrimSpace(m[1]); s != "" {
				msgs = append(msgs, s)
			}
		}
		return msgs

	case skippedInRE.MatchString(msg):
		msg = skippedInRE.ReplaceAllString(msg, "")
		parts := strings.Split(msg, "Earlier message:")
		// The earlier message explains the actual failure, so
		// put it first.
		if len(parts) > 1 {
			last := parts[len(parts)-1]
			parts = append([]string{last}, parts[:len(parts)-1]...)
		}
		var msgs []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				msgs = append(msgs, s)
			}
		}
		return msgs

	case phaseFailedRE.MatchString(msg):
		m := phaseFailedRE.FindStringSubmatch(msg)
		if s := strings.TrimSpace(m[1]); s != "" {
			return []string{s}
		}
		return nil
	}

	if s := strings.TrimSpace(msg); s != "" {
		return []string{s}
	}
	return nil
}
