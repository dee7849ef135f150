package analysis

import "regexp"

// hundredBlockRe matches the municipal hundred-block prefix: a run of
// digits and X placeholders followed by exactly one space, e.g. the
// "4XX " in "4XX W 15TH AVE". A street whose name merely starts with a
// digit but lacks the trailing space boundary is left alone.
var hundredBlockRe = regexp.MustCompile(`^[0-9X]+ `)

// ExtractStreet strips the hundred-block prefix from an address fragment,
// returning the bare street name used as a grouping key. Fragments that
// don't match the pattern pass through unchanged.
func ExtractStreet(hundredBlock string) string {
	return hundredBlockRe.ReplaceAllString(hundredBlock, "")
}
