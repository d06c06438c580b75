package extractor

import (
	"regexp"
	"strings"

	"github.com/ecotrip/orchestrator/domain"
)

// Reply is the parsed form of a requirements collection response. The three
// sections are independently optional; the Has flags report which ones the
// raw text actually carried.
type Reply struct {
	Requirements    *domain.Requirements
	HasRequirements bool

	Response    string
	HasResponse bool

	Phase    domain.Phase
	HasPhase bool
}

var (
	extractedJSONRe = regexp.MustCompile(`(?s)EXTRACTED_JSON:\s*(\{.*?\})\s*(?:RESPONSE:|$)`)
	responseRe      = regexp.MustCompile(`(?s)RESPONSE:\s*(.*?)(?:\nPHASE:|$)`)
	phaseRe         = regexp.MustCompile(`PHASE:\s*(\w+)`)
)

// ParseReply locates the EXTRACTED_JSON, RESPONSE and PHASE sections in raw
// model output. A section that is absent, or present but unparseable, leaves
// the corresponding Has flag false so the caller keeps its current value.
func ParseReply(raw string) *Reply {
	reply := &Reply{}

	if m := extractedJSONRe.FindStringSubmatch(raw); m != nil {
		if doc, err := domain.DecodeCandidate([]byte(m[1])); err == nil {
			reply.Requirements = doc
			reply.HasRequirements = true
		}
	}

	if m := responseRe.FindStringSubmatch(raw); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			reply.Response = text
			reply.HasResponse = true
		}
	}

	if m := phaseRe.FindStringSubmatch(raw); m != nil {
		if p := strings.ToLower(m[1]); domain.ValidPhase(p) {
			reply.Phase = domain.Phase(p)
			reply.HasPhase = true
		}
	}

	return reply
}
