// Package vocab holds the fixed controlled-vocabulary tables used when
// mapping harvested metadata to Metax reference data, and the client for
// the externally maintained language vocabulary.
package vocab

import "strings"

// Access type URIs. Metax classifies access as either fully open or
// restricted; there is no middle ground in this mapping.
const (
	AccessTypeOpen       = "http://uri.suomi.fi/codelist/fairdata/access_type/code/open"
	AccessTypeRestricted = "http://uri.suomi.fi/codelist/fairdata/access_type/code/restricted"
)

// Restriction grounds URIs for restricted resources.
const (
	RestrictionGroundsResearch = "http://uri.suomi.fi/codelist/fairdata/restriction_grounds/code/research"
	RestrictionGroundsOther    = "http://uri.suomi.fi/codelist/fairdata/restriction_grounds/code/other"
)

// OtherLicenseURL is the catch-all license used when none of a record's
// license codes have a known mapping.
const OtherLicenseURL = "http://uri.suomi.fi/codelist/fairdata/license/code/other"

// licenseCodes maps source license tokens to Metax license URIs.
// Unlisted tokens have no mapping and are dropped by the caller.
var licenseCodes = map[string]string{
	"CLARIN_PUB":        "http://uri.suomi.fi/codelist/fairdata/license/code/ClarinPUB-1.0",
	"CLARIN_ACA":        "http://uri.suomi.fi/codelist/fairdata/license/code/ClarinACA-1.0",
	"CLARIN_ACA-NC":     "http://uri.suomi.fi/codelist/fairdata/license/code/ClarinACA+NC-1.0",
	"CLARIN_RES":        "http://uri.suomi.fi/codelist/fairdata/license/code/ClarinRES-1.0",
	"other":             OtherLicenseURL,
	"underNegotiation":  "http://uri.suomi.fi/codelist/fairdata/license/code/undernegotiation",
	"proprietary":       "http://uri.suomi.fi/codelist/fairdata/license/code/other-closed",
	"CC-BY":             "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-1.0",
	"CC-BY-ND":          "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-ND-4.0",
	"CC-BY-NC":          "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-NC-2.0",
	"CC-BY-SA":          "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-SA-3.0",
	"CC-BY-NC-ND":       "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-NC-ND-4.0",
	"CC-BY-NC-SA":       "http://uri.suomi.fi/codelist/fairdata/license/code/CC-BY-NC-SA-4.0",
	"CC-ZERO":           "http://uri.suomi.fi/codelist/fairdata/license/code/CC0-1.0",
	"ApacheLicence_2.0": "http://uri.suomi.fi/codelist/fairdata/license/code/Apache-2.0",
	"AGPL":              "http://uri.suomi.fi/codelist/fairdata/license/code/AGPL-3.0",
}

// LicenseURL returns the Metax license URI for a source license token.
func LicenseURL(code string) (string, bool) {
	url, ok := licenseCodes[code]
	return url, ok
}

// IsACALicense reports whether a mapped license URI belongs to the
// academic (ACA) license family. ACA resources are restricted to
// research use, which determines their restriction grounds.
func IsACALicense(url string) bool {
	return strings.Contains(url, "ClarinACA")
}

// CustomURLCandidate reports whether the documentation of a record
// should be scanned for a license-specific information URL when this
// source license token is present. Only the RES and catch-all licenses
// come with a resource-specific license page.
func CustomURLCandidate(code string) bool {
	return code == "CLARIN_RES" || code == "other"
}
