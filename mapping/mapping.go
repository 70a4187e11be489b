// Package mapping defines dialect profiles: the location tables and
// policies that tell the record parser where each field lives in a
// given source XML dialect and how dialect-specific irregularities are
// handled.
package mapping

// Profile describes one source XML dialect.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Paths    Paths           `yaml:"paths"`
	Actors   []ActorLocation `yaml:"actors"`
	Policies Policies        `yaml:"policies"`
}

// Paths holds the element locations for the scalar record fields. All
// locations are XPath expressions matched on local element names, so
// they apply regardless of the namespace prefix a record happens to use.
type Paths struct {
	PID string `yaml:"pid"`
	// FallbackIdentifier is used in error messages when the PID itself
	// cannot be resolved.
	FallbackIdentifier string `yaml:"fallback_identifier"`

	ResourceType []string `yaml:"resource_type"`

	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Created     string `yaml:"created"`
	Modified    string `yaml:"modified"`

	Licenses     string `yaml:"licenses"`
	Availability string `yaml:"availability"`
	Languages    string `yaml:"languages"`

	DocumentsStructured   string `yaml:"documents_structured"`
	DocumentsUnstructured string `yaml:"documents_unstructured"`
}

// ActorLocation lists the element locations carrying actors of one
// role. The order of entries determines the encounter order of actors,
// which is preserved in the mapped record.
type ActorLocation struct {
	Role      string   `yaml:"role"`
	Locations []string `yaml:"locations"`
}

// Policies captures the behaviors that differ between dialects.
type Policies struct {
	// SkipPersonlessActors drops actor mentions that carry no person
	// data instead of failing the record.
	SkipPersonlessActors bool `yaml:"skip_personless_actors"`

	// MandatoryAffiliationRoles lists roles whose actors must resolve
	// to organization data; a missing affiliation there fails the
	// record instead of falling back to a person-only actor.
	MandatoryAffiliationRoles []string `yaml:"mandatory_affiliation_roles"`

	// LanguageCodeFallbacks maps non-standard language codes seen in
	// this dialect's data to standard ISO 639 codes.
	LanguageCodeFallbacks map[string]string `yaml:"language_code_fallbacks"`
}

// AffiliationMandatory reports whether actors of the given role must
// have resolvable organization data.
func (p Policies) AffiliationMandatory(role string) bool {
	for _, r := range p.MandatoryAffiliationRoles {
		if r == role {
			return true
		}
	}
	return false
}
