package format

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/record"
	"github.com/CSCfi/kielipankki-metax-bridge/vocab"
)

// corpusResourceType is the resource type this harvester is interested
// in; records of any other type are never mapped.
const corpusResourceType = "corpus"

// openAvailability is the source availability value mapped to the open
// access type; every other value maps to restricted.
const openAvailability = "available-unrestrictedUse"

// ParseReader decodes one XML record from r and maps it.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*record.Record, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing record XML: %w", err)
	}
	return p.Parse(ctx, doc)
}

// Parse maps one source XML record to a canonical Record. It either
// returns a complete record or an error; on mapping problems the error
// is a *record.ParsingError carrying the best-effort record identifier.
func (p *Parser) Parse(ctx context.Context, root *xmlquery.Node) (*record.Record, error) {
	pid, err := p.PID(root)
	if err != nil {
		return nil, err
	}

	corpus, err := p.IsCorpus(root)
	if err != nil {
		return nil, err
	}
	if !corpus {
		return nil, record.NewParsingError(pid, "resource type is not %s", corpusResourceType)
	}

	created, err := p.timestamp(root, p.profile.Paths.Created, pid)
	if err != nil {
		return nil, err
	}
	modified, err := p.timestamp(root, p.profile.Paths.Modified, pid)
	if err != nil {
		return nil, err
	}

	languages, err := p.resourceLanguages(ctx, root, pid)
	if err != nil {
		return nil, err
	}

	actors, err := p.actors(root, pid)
	if err != nil {
		return nil, err
	}

	return &record.Record{
		Language:             languages,
		FieldOfScience:       []record.Ref{{URL: record.FieldOfScienceURL}},
		PersistentIdentifier: pid,
		Title:                languageContents(root, p.profile.Paths.Title),
		Description:          languageContents(root, p.profile.Paths.Description),
		Created:              created,
		Modified:             modified,
		AccessRights:         p.accessRights(root),
		Actors:               actors,
		State:                record.State,
	}, nil
}

// PID returns the persistent identifier of the record. When the PID
// location is empty the error carries the dialect's fallback identifier
// so the operator can still tell which record failed.
func (p *Parser) PID(root *xmlquery.Node) (string, error) {
	if pid, ok := firstText(root, p.profile.Paths.PID); ok && pid != "" {
		return pid, nil
	}
	fallback, _ := firstText(root, p.profile.Paths.FallbackIdentifier)
	return "", record.NewParsingError(fallback, "could not determine PID")
}

// IsCorpus reports whether the record describes a corpus resource. A
// record without a resource type in any of the dialect's locations
// cannot be classified and fails.
func (p *Parser) IsCorpus(root *xmlquery.Node) (bool, error) {
	for _, path := range p.profile.Paths.ResourceType {
		if resourceType, ok := firstText(root, path); ok {
			return resourceType == corpusResourceType, nil
		}
	}
	pid, _ := firstText(root, p.profile.Paths.PID)
	return false, record.NewParsingError(pid, "could not determine resource type")
}

func (p *Parser) timestamp(root *xmlquery.Node, path, pid string) (string, error) {
	raw, ok := firstText(root, path)
	if !ok || raw == "" {
		return "", record.NewParsingError(pid, "no date found at %s", path)
	}
	normalized, err := record.NormalizeTimestamp(raw)
	if err != nil {
		return "", record.NewParsingError(pid, "%v", err)
	}
	return normalized, nil
}

// resourceLanguages resolves the record's language codes to verified
// lexvo URIs. Duplicate codes resolving to the same URI collapse into
// one entry. A code that cannot be resolved fails the record; a
// vocabulary fetch failure is returned as-is and aborts the harvest.
func (p *Parser) resourceLanguages(ctx context.Context, root *xmlquery.Node, pid string) ([]record.Ref, error) {
	uris := make(map[string]struct{})
	for _, node := range findAll(root, p.profile.Paths.Languages) {
		code := strings.TrimSpace(node.InnerText())
		if code == "" {
			continue
		}

		uri, err := vocab.LexvoURI(code, p.profile.Policies.LanguageCodeFallbacks)
		if err != nil {
			return nil, record.NewParsingError(pid, "%v", err)
		}

		allowed, err := p.vocabulary.IsAllowed(ctx, uri)
		if err != nil {
			return nil, err
		}
		if allowed {
			uris[uri] = struct{}{}
		}
	}
	return record.LanguageRefs(uris), nil
}

// accessRights maps the record's license and availability information.
// License codes without a known mapping are dropped; when nothing
// usable remains a single catch-all "other" license is synthesized.
// Restricted resources always carry restriction grounds (research for
// ACA-family licenses, other as fallback); open resources never do.
func (p *Parser) accessRights(root *xmlquery.Node) *record.AccessRights {
	var licenses []record.License
	research := false

	for _, el := range findAll(root, p.profile.Paths.Licenses) {
		code, ok := firstText(el, "licence")
		if !ok {
			continue
		}
		url, ok := vocab.LicenseURL(code)
		if !ok {
			continue
		}

		license := record.License{URL: url}
		if vocab.CustomURLCandidate(code) {
			license.CustomURL = p.licenseURLFromDocumentation(root)
		}
		licenses = append(licenses, license)

		if vocab.IsACALicense(url) {
			research = true
		}
	}

	if len(licenses) == 0 {
		licenses = []record.License{{URL: vocab.OtherLicenseURL}}
	}

	accessType := vocab.AccessTypeRestricted
	if availability, ok := firstText(root, p.profile.Paths.Availability); ok && availability == openAvailability {
		accessType = vocab.AccessTypeOpen
	}

	rights := &record.AccessRights{
		License:    licenses,
		AccessType: record.Ref{URL: accessType},
	}
	if accessType == vocab.AccessTypeRestricted {
		grounds := vocab.RestrictionGroundsOther
		if research {
			grounds = vocab.RestrictionGroundsResearch
		}
		rights.RestrictionGrounds = []record.Ref{{URL: grounds}}
	}
	return rights
}

// licenseURLFromDocumentation scans the record's documentation for a
// license information URL. A structured document titled with "license"
// wins; failing that, the first urn.fi token in unstructured text
// mentioning a license is used.
func (p *Parser) licenseURLFromDocumentation(root *xmlquery.Node) string {
	for _, doc := range findAll(root, p.profile.Paths.DocumentsStructured) {
		for _, title := range findAll(doc, "title") {
			if langAttr(title) != "en" {
				continue
			}
			if strings.Contains(strings.ToLower(title.InnerText()), "license") {
				if url, ok := firstText(doc, "url"); ok {
					return url
				}
			}
			break
		}
	}

	for _, doc := range findAll(root, p.profile.Paths.DocumentsUnstructured) {
		text := strings.ToLower(strings.TrimSpace(doc.InnerText()))
		if !strings.Contains(text, "license") {
			continue
		}
		for _, word := range strings.Fields(text) {
			if strings.Contains(word, "://urn.fi/urn:nbn:fi") {
				return word
			}
		}
	}

	return ""
}

// actors collects the record's actors from the dialect's role location
// table, merging mentions of the same actor by role-set union. Metax
// requires at least one creator and exactly one publisher: missing ones
// fail the record, surplus publishers are collapsed into the synthetic
// multiple-publishers actor.
func (p *Parser) actors(root *xmlquery.Node, pid string) ([]*record.Actor, error) {
	set := record.NewActorSet()

	for _, location := range p.profile.Actors {
		opts := ResolveOptions{
			Role:                 location.Role,
			MandatoryAffiliation: p.profile.Policies.AffiliationMandatory(location.Role),
			SkipPersonless:       p.profile.Policies.SkipPersonlessActors,
		}
		for _, path := range location.Locations {
			for _, el := range findAll(root, path) {
				actor, err := ResolveActor(el, opts)
				if err != nil {
					return nil, record.NewParsingError(pid, "%v", err)
				}
				if actor == nil {
					continue
				}
				set.Add(actor)
			}
		}
	}

	if set.CountWithRole(record.RoleCreator) == 0 {
		return nil, record.NewParsingError(pid, "no metadata creators (creator in Metax) found")
	}

	publishers := set.CountWithRole(record.RolePublisher)
	if publishers == 0 {
		return nil, record.NewParsingError(pid, "no distribution rights holders (publisher in Metax) found")
	}

	actors := set.Actors()
	if publishers > 1 {
		actors = record.CollapsePublishers(actors)
	}
	return actors, nil
}
