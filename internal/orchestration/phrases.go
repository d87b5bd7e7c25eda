package orchestration

import "strings"

// DefaultFailurePhrases is the policy table for completion interpretation: an
// agent that claims it is done while its final message contains any of these
// markers is downgraded to failed. The list is heuristic and English-specific
// by nature, so it is data rather than logic. Callers may substitute their
// own table via WithFailurePhrases.
var DefaultFailurePhrases = []string{
	"unable to",
	"could not",
	"couldn't",
	"failed to",
	"did not",
	"didn't",
	"cannot",
	"can't",
	"was not able",
	"wasn't able",
	"not able to",
	"no longer able",
	"stuck at",
	"despite numerous attempts",
	"despite several attempts",
	"despite multiple attempts",
	"however,",
	"unfortunately",
	"unsuccessfully",
	"not found",
	"error occurred",
	"gave up",
	"giving up",
}

// matchFailurePhrase scans message (lower-cased) for the first phrase in the
// table and returns it. First match wins in table order.
func matchFailurePhrase(message string, phrases []string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return p, true
		}
	}
	return "", false
}
