package vocab

// ConsortiumName is the umbrella consortium under which member
// organizations appear in source metadata. When an affiliation names the
// consortium itself, the department field carries the actual home
// organization.
const ConsortiumName = "FIN-CLARIN"

const organizationURLBase = "http://uri.suomi.fi/codelist/fairdata/organization/code"

// organizationCodes maps organization display names, as they appear in
// source metadata, to their administrative organization codes.
var organizationCodes = map[string]string{
	"Aalto University":                    "10076",
	"CSC — IT Center for Science Ltd":     "09206320",
	"Centre for Applied Language Studies": "01906-213060",
	"National Library of Finland":         "01901-H981",
	"South Eastern Finland University of Applied Sciences": "10118",
	"University of Eastern Finland": "10088",
	"University of Helsinki":        "01901",
	"University of Jyväskylä":       "01906",
	"University of Oulu":            "01904",
	"University of Tampere":         "10122",
	"University of Turku":           "10089",
}

// OrganizationURL returns the organization code URI for an organization
// display name. The second return value is false when the name has no
// known code.
func OrganizationURL(name string) (string, bool) {
	code, ok := organizationCodes[name]
	if !ok {
		return "", false
	}
	return organizationURLBase + "/" + code, true
}
