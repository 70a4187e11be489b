// Package format maps source XML records onto the canonical Metax
// record. One Parser handles all source dialects; the per-dialect
// locations and policies come from a mapping profile.
package format

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/mapping"
	"github.com/CSCfi/kielipankki-metax-bridge/vocab"
)

// Parser maps records of one source dialect to canonical records.
type Parser struct {
	profile    *mapping.Profile
	vocabulary *vocab.LanguageVocabulary
}

// NewParser creates a parser for the given dialect profile. The language
// vocabulary confirms resolved language URIs before they enter a record.
func NewParser(profile *mapping.Profile, vocabulary *vocab.LanguageVocabulary) *Parser {
	return &Parser{profile: profile, vocabulary: vocabulary}
}

// Profile returns the dialect profile this parser was built from.
func (p *Parser) Profile() *mapping.Profile {
	return p.profile
}

// localNames rewrites every step of a location expression into a
// local-name() test. An unprefixed name test only matches elements
// without a namespace prefix, but the same element arrives as
// cmd:Header, info:Header or Header depending on the source dialect;
// the locations name elements, not prefixes.
func localNames(path string) string {
	steps := strings.Split(path, "/")
	for i, step := range steps {
		if step == "" || step == "*" {
			continue
		}
		steps[i] = "*[local-name()='" + step + "']"
	}
	return strings.Join(steps, "/")
}

// findAll evaluates an XPath location against a node, matching steps by
// local element name regardless of namespace prefixes.
func findAll(n *xmlquery.Node, path string) []*xmlquery.Node {
	return xmlquery.Find(n, localNames(path))
}

// firstText returns the trimmed text of the first element at the given
// location.
func firstText(n *xmlquery.Node, path string) (string, bool) {
	nodes := findAll(n, path)
	if len(nodes) == 0 {
		return "", false
	}
	return strings.TrimSpace(nodes[0].InnerText()), true
}

// langAttr returns the element's language attribute. Both dialect
// attribute spellings (xml:lang and bare lang) are accepted; elements
// without one report the undetermined tag.
func langAttr(n *xmlquery.Node) string {
	for _, attr := range n.Attr {
		if attr.Name.Local == "lang" {
			return attr.Value
		}
	}
	return "und"
}

// languageTags is the fixed preference order for multilingual content.
var languageTags = []string{"en", "fi", "und"}

// languageContents collects the per-language text content at a
// location. For each language tag the first matching element wins; tags
// without content are omitted.
func languageContents(n *xmlquery.Node, path string) map[string]string {
	result := make(map[string]string)
	nodes := findAll(n, path)
	for _, tag := range languageTags {
		for _, node := range nodes {
			if langAttr(node) != tag {
				continue
			}
			if text := strings.TrimSpace(node.InnerText()); text != "" {
				result[tag] = text
			}
			break
		}
	}
	return result
}
