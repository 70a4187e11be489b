package vocab

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// iso6395Codes is the set of ISO 639-5 language family codes. Family
// codes are collective and have no ISO 639-3 counterpart, so they get
// lexvo URIs under the iso639-5 namespace instead.
var iso6395Codes = map[string]bool{
	"aav": true, "afa": true, "alg": true, "alv": true, "apa": true,
	"aqa": true, "aql": true, "art": true, "ath": true, "auf": true,
	"aus": true, "awd": true, "azc": true, "bad": true, "bai": true,
	"bat": true, "ber": true, "bnt": true, "btk": true, "cai": true,
	"cau": true, "cba": true, "ccn": true, "ccs": true, "cdc": true,
	"cdd": true, "cel": true, "cmc": true, "cpe": true, "cpf": true,
	"cpp": true, "crp": true, "csu": true, "cus": true, "day": true,
	"dmn": true, "dra": true, "egx": true, "esx": true, "euq": true,
	"fiu": true, "fox": true, "gem": true, "gme": true, "gmq": true,
	"gmw": true, "grk": true, "hmx": true, "hok": true, "hyx": true,
	"iir": true, "ijo": true, "inc": true, "ine": true, "ira": true,
	"iro": true, "itc": true, "jpx": true, "kar": true, "kdo": true,
	"khi": true, "kro": true, "map": true, "mkh": true, "mno": true,
	"mun": true, "myn": true, "nah": true, "nai": true, "ngf": true,
	"nic": true, "nub": true, "omq": true, "omv": true, "oto": true,
	"paa": true, "phi": true, "plf": true, "poz": true, "pqe": true,
	"pqw": true, "pra": true, "qwe": true, "roa": true, "sai": true,
	"sal": true, "sdv": true, "sem": true, "sgn": true, "sio": true,
	"sit": true, "sla": true, "smi": true, "son": true, "sqj": true,
	"ssa": true, "syd": true, "tai": true, "tbq": true, "trk": true,
	"tup": true, "tut": true, "tuw": true, "urj": true, "wak": true,
	"wen": true, "xgn": true, "xnd": true, "ypk": true, "zhx": true,
	"zle": true, "zls": true, "zlw": true, "znd": true,
}

// LexvoURI resolves a raw source language code to its lexvo.org URI.
// Source data mixes two-letter (fi) and three-letter (fin) codes; Metax
// accepts only lexvo URIs built from the three-letter ISO 639-3 code,
// or the ISO 639-5 code for language families. ISO 639-3 is preferred
// when both could apply.
//
// fallbacks maps known non-standard source codes to standard ones
// before resolution; pass nil for dialects without such codes.
func LexvoURI(code string, fallbacks map[string]string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if replacement, ok := fallbacks[normalized]; ok {
		normalized = replacement
	}

	if iso6395Codes[normalized] {
		return "http://lexvo.org/id/iso639-5/" + normalized, nil
	}

	base, err := language.ParseBase(normalized)
	if err != nil {
		return "", fmt.Errorf("could not determine ISO 639 language code for %q", code)
	}
	iso3 := base.ISO3()
	if iso3 == "" {
		return "", fmt.Errorf("could not determine three-letter language code for %q", code)
	}
	return "http://lexvo.org/id/iso639-3/" + iso3, nil
}
