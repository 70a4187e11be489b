package format

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/record"
	"github.com/CSCfi/kielipankki-metax-bridge/vocab"
)

// ResolveOptions control how an actor fragment is resolved.
type ResolveOptions struct {
	// Role assigned to the resolved actor.
	Role string

	// MandatoryAffiliation fails resolution when the fragment carries
	// no organization data, instead of producing a person-only actor.
	MandatoryAffiliation bool

	// SkipPersonless makes person fragments without a resolvable name
	// resolve to nil instead of an error.
	SkipPersonless bool
}

// actorData is the typed intermediate an actor fragment is walked into.
// Repeated leaves sharing a key overwrite earlier values: the last
// duplicate wins. That is an intentional information-loss point
// inherited from the source schemas, made explicit here.
type actorData struct {
	given   map[string]string // language tag -> given name
	surname map[string]string // language tag -> surname
	email   string
	org     *organizationData
}

type organizationData struct {
	names      map[string]string // language tag -> organization name
	department map[string]string // language tag -> department name
	homepage   string
	email      string
}

// ResolveActor builds a canonical actor from one raw XML fragment. It
// returns nil without error when the fragment is skippable under the
// given options (a personless mention in a dialect that tolerates
// them).
func ResolveActor(el *xmlquery.Node, opts ResolveOptions) (*record.Actor, error) {
	data := &actorData{
		given:   make(map[string]string),
		surname: make(map[string]string),
	}
	// Fragments named after organizations (distributionRightsHolder-
	// Organization, iprHolderOrganization) carry organization fields at
	// the top level rather than under an affiliation element.
	orgFragment := strings.Contains(el.Data, "Organization")
	if orgFragment {
		data.organization()
	}
	walkActorFragment(el, data, orgFragment)

	name := data.personName()
	if name == "" && !orgFragment {
		if opts.SkipPersonless {
			return nil, nil
		}
		return nil, fmt.Errorf("could not parse person name from %s", el.Data)
	}

	organization, err := data.resolveOrganization(opts)
	if err != nil {
		return nil, err
	}

	actor := &record.Actor{Organization: organization}
	actor.AddRoles(opts.Role)
	if name != "" {
		actor.Person = &record.Person{Name: name, Email: data.email}
	}
	return actor, nil
}

func (d *actorData) organization() *organizationData {
	if d.org == nil {
		d.org = &organizationData{
			names:      make(map[string]string),
			department: make(map[string]string),
		}
	}
	return d.org
}

// walkActorFragment fills the actor data from the element tree.
// Descending into an affiliation or organizationInfo element switches
// the leaf fields over to the organization.
func walkActorFragment(el *xmlquery.Node, data *actorData, inOrg bool) {
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}

		switch child.Data {
		case "affiliation", "organizationInfo":
			walkActorFragment(child, data, true)
			continue
		case "surname":
			if !inOrg {
				data.surname[langAttr(child)] = strings.TrimSpace(child.InnerText())
				continue
			}
		case "givenName":
			if !inOrg {
				data.given[langAttr(child)] = strings.TrimSpace(child.InnerText())
				continue
			}
		case "organizationName":
			data.organization().names[langAttr(child)] = strings.TrimSpace(child.InnerText())
			continue
		case "departmentName":
			data.organization().department[langAttr(child)] = strings.TrimSpace(child.InnerText())
			continue
		case "email":
			if inOrg {
				data.organization().email = strings.TrimSpace(child.InnerText())
			} else {
				data.email = strings.TrimSpace(child.InnerText())
			}
			continue
		case "url":
			if inOrg {
				data.organization().homepage = strings.TrimSpace(child.InnerText())
			}
			continue
		}

		walkActorFragment(child, data, inOrg)
	}
}

// personName resolves the actor's display name by walking the language
// preference order and picking the first language that offers a
// surname; the given name is prepended when present.
func (d *actorData) personName() string {
	for _, tag := range languageTags {
		surname := d.surname[tag]
		if surname == "" {
			continue
		}
		if given := d.given[tag]; given != "" {
			return given + " " + surname
		}
		return surname
	}
	return ""
}

// resolveOrganization maps the fragment's organization data to either a
// resolved organization code URI or the structural fallback block. No
// organization data at all is an error for mandatory-affiliation roles
// and nil otherwise.
func (d *actorData) resolveOrganization(opts ResolveOptions) (*record.Organization, error) {
	name := preferredValue(orgNames(d.org))
	if name == "" {
		if opts.MandatoryAffiliation {
			return nil, fmt.Errorf("could not find affiliation for %q actor %s", opts.Role, d.describe())
		}
		return nil, nil
	}

	// Affiliations stated as the umbrella consortium name the member
	// organization in the department field instead.
	if name == vocab.ConsortiumName {
		if department := preferredValue(d.org.department); department != "" {
			name = department
		}
	}

	if url, ok := vocab.OrganizationURL(name); ok {
		return &record.Organization{URL: url}, nil
	}

	fallback := &record.Organization{
		PrefLabel: make(map[string]string, len(d.org.names)),
		Homepage:  d.org.homepage,
		Email:     d.org.email,
	}
	for tag, label := range d.org.names {
		if label != "" {
			fallback.PrefLabel[tag] = label
		}
	}
	return fallback, nil
}

func (d *actorData) describe() string {
	if name := d.personName(); name != "" {
		return name
	}
	return "(no person data)"
}

func orgNames(org *organizationData) map[string]string {
	if org == nil {
		return nil
	}
	return org.names
}

// preferredValue picks a value from a per-language map following the
// fixed language preference order.
func preferredValue(values map[string]string) string {
	for _, tag := range languageTags {
		if v := values[tag]; v != "" {
			return v
		}
	}
	return ""
}
