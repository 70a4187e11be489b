package format

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/mapping"
	"github.com/CSCfi/kielipankki-metax-bridge/record"
	"github.com/CSCfi/kielipankki-metax-bridge/vocab"
)

// testVocabulary serves a language vocabulary accepting exactly the
// given URIs.
func testVocabulary(t *testing.T, uris ...string) *vocab.LanguageVocabulary {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits":{"hits":[`)
		for i, uri := range uris {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"_source":{"uri":%q}}`, uri)
		}
		fmt.Fprint(w, `]}}`)
	}))
	t.Cleanup(srv.Close)
	return vocab.NewLanguageVocabulary(srv.URL)
}

func testParser(t *testing.T, dialect string, uris ...string) *Parser {
	t.Helper()
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry failed: %v", err)
	}
	profile, ok := registry.Get(dialect)
	if !ok {
		t.Fatalf("no %s profile", dialect)
	}
	if len(uris) == 0 {
		uris = []string{
			"http://lexvo.org/id/iso639-3/fin",
			"http://lexvo.org/id/iso639-3/swe",
			"http://lexvo.org/id/iso639-5/smi",
		}
	}
	return NewParser(profile, testVocabulary(t, uris...))
}

func parseString(t *testing.T, p *Parser, input string) (*record.Record, error) {
	t.Helper()
	return p.ParseReader(context.Background(), strings.NewReader(input))
}

func TestLocalNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"//Header/MdSelfLink", "//*[local-name()='Header']/*[local-name()='MdSelfLink']"},
		{"licence", "*[local-name()='licence']"},
		{"//*/languageId", "//*/*[local-name()='languageId']"},
	}
	for _, tt := range tests {
		if got := localNames(tt.in); got != tt.want {
			t.Errorf("localNames(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocationsMatchAnyPrefix(t *testing.T) {
	// The same element arrives prefixed or not depending on the
	// dialect; locations must match it either way.
	inputs := map[string]string{
		"prefixed": `<cmd:CMD xmlns:cmd="http://www.clarin.eu/cmd/">
			<cmd:Header><cmd:MdSelfLink>urn:nbn:fi:lb-1</cmd:MdSelfLink></cmd:Header>
		</cmd:CMD>`,
		"default namespace": `<CMD xmlns="http://www.clarin.eu/cmd/">
			<Header><MdSelfLink>urn:nbn:fi:lb-1</MdSelfLink></Header>
		</CMD>`,
	}
	for name, input := range inputs {
		doc, err := xmlquery.Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("%s: parsing fixture: %v", name, err)
		}
		got, ok := firstText(doc, "//Header/MdSelfLink")
		if !ok {
			t.Errorf("%s: //Header/MdSelfLink matched nothing", name)
			continue
		}
		if got != "urn:nbn:fi:lb-1" {
			t.Errorf("%s: got %q, want urn:nbn:fi:lb-1", name, got)
		}
	}
}

// parsingError asserts that err is a mapping failure and returns it.
func parsingError(t *testing.T, err error) *record.ParsingError {
	t.Helper()
	if err == nil {
		t.Fatal("expected a parsing error, got nil")
	}
	parseErr, ok := err.(*record.ParsingError)
	if !ok {
		t.Fatalf("expected *record.ParsingError, got %T: %v", err, err)
	}
	return parseErr
}
