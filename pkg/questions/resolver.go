package questions

import (
	"strings"

	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
)

// pair binds a normalized keyword to its configured raw answer.
type pair struct {
	keyword string
	answer  string
}

// Resolver maps on-screen security question text to configured answers by
// normalized keyword matching. Configuration order is preserved and used
// as the tie-break when several keywords match one question.
type Resolver struct {
	pairs []pair
	log   *logging.Logger
}

// NewResolver builds a resolver from a configuration string of
// comma-separated keyword:answer pairs, e.g.
//
//	"madre:Maria,colegio:San Jose,mascota:Firulais"
//
// Malformed entries are skipped. Keywords are normalized once at
// construction; answers are kept verbatim.
func NewResolver(config string) *Resolver {
	log, _ := logging.NewLogger("questions")
	r := &Resolver{log: log}

	for _, entry := range strings.Split(config, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		keyword, answer, ok := strings.Cut(entry, ":")
		if !ok {
			log.Warnf("skipping malformed security answer entry %q", entry)
			continue
		}
		normalized := Normalize(keyword)
		if normalized == "" {
			log.Warnf("skipping security answer entry with empty keyword %q", entry)
			continue
		}
		r.pairs = append(r.pairs, pair{keyword: normalized, answer: strings.TrimSpace(answer)})
	}

	return r
}

// Len returns the number of configured keyword/answer pairs.
func (r *Resolver) Len() int {
	return len(r.pairs)
}

// Resolve returns the configured answer for the first keyword (in
// configuration order) whose normalized form is a substring of the
// normalized question text.
func (r *Resolver) Resolve(question string) (string, bool) {
	normalized := Normalize(question)
	if normalized == "" {
		return "", false
	}
	for _, p := range r.pairs {
		if strings.Contains(normalized, p.keyword) {
			return p.answer, true
		}
	}
	return "", false
}
