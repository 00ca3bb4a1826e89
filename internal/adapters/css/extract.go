// Package css removes unused rules from stylesheets and minifies them.
package css

import "regexp"

// Candidate token patterns for markup and scripts. The broad pattern keeps
// utility classes such as "md:flex" and "w-1/2" whole; the inner pattern
// splits on dots and parentheses so "el.classList.add(hidden)" yields "hidden".
var (
	broadPattern = regexp.MustCompile("[^<>\"'`\\s]*[^<>\"'`\\s:]")
	innerPattern = regexp.MustCompile("[^<>\"'`\\s.()]*[^<>\"'`\\s.():]")
)

// Extract adds every selector candidate found in content to tokens.
func (p *Purger) Extract(content []byte, tokens map[string]struct{}) {
	for _, re := range []*regexp.Regexp{broadPattern, innerPattern} {
		for _, m := range re.FindAll(content, -1) {
			tokens[string(m)] = struct{}{}
		}
	}
}
