package queue

import "regexp"

// Worker output reports progress as "<pct>% of <size>", e.g.
// " 45.2% of 10.33MiB at 1.21MiB/s". Chunk boundaries are arbitrary; a
// marker split across two chunks is simply not seen, which is fine
// because progress is advisory.
var progressRe = regexp.MustCompile(`(\S+%) of ~?(\S+)`)

// ParseProgress returns the last progress pair found in chunk.
func ParseProgress(chunk string) (percent, total string, ok bool) {
	matches := progressRe.FindAllStringSubmatch(chunk, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	last := matches[len(matches)-1]
	return last[1], last[2], true
}
