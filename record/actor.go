package record

import (
	"sort"
	"strings"
)

// Roles an actor can hold on a record.
const (
	RoleCreator      = "creator"
	RolePublisher    = "publisher"
	RoleCurator      = "curator"
	RoleRightsHolder = "rights_holder"
)

// Person is the personal part of an actor.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Organization is the organizational part of an actor: either a resolved
// organization code URI, or a structural fallback built from the raw
// metadata when no code matches.
type Organization struct {
	URL       string            `json:"url,omitempty"`
	PrefLabel map[string]string `json:"pref_label,omitempty"`
	Homepage  string            `json:"homepage,omitempty"`
	Email     string            `json:"email,omitempty"`
}

// Actor is a person and/or organization associated with a record via one
// or more roles. The role list is kept sorted so that the serialized
// representation of an actor is always the same.
type Actor struct {
	Roles        []string      `json:"roles"`
	Person       *Person       `json:"person,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}

// AddRoles adds the given roles to the actor, ignoring duplicates.
func (a *Actor) AddRoles(roles ...string) {
	have := make(map[string]bool, len(a.Roles))
	for _, r := range a.Roles {
		have[r] = true
	}
	for _, r := range roles {
		if !have[r] {
			a.Roles = append(a.Roles, r)
			have[r] = true
		}
	}
	sort.Strings(a.Roles)
}

// HasRole reports whether the actor holds the given role.
func (a *Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RemoveRole drops the given role from the actor. Removing a role the
// actor does not hold is a no-op.
func (a *Actor) RemoveRole(role string) {
	kept := a.Roles[:0]
	for _, r := range a.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	a.Roles = kept
}

// IdentityKey returns the composite identity of the actor: name, email
// and organization fingerprint. Two actor mentions with the same key
// describe the same actor and are merged by role-set union.
func (a *Actor) IdentityKey() string {
	var name, email string
	if a.Person != nil {
		name = a.Person.Name
		email = a.Person.Email
	}
	return name + "\x1f" + email + "\x1f" + organizationFingerprint(a.Organization)
}

func organizationFingerprint(o *Organization) string {
	if o == nil {
		return ""
	}
	if o.URL != "" {
		return "url:" + o.URL
	}
	labels := make([]string, 0, len(o.PrefLabel))
	for lang, label := range o.PrefLabel {
		labels = append(labels, lang+"="+label)
	}
	sort.Strings(labels)
	return "label:" + strings.Join(labels, ";") + "\x1f" + o.Homepage + "\x1f" + o.Email
}

// ActorSet accumulates actors in encounter order, merging mentions of
// the same actor by role-set union. The first-seen mention's data wins.
type ActorSet struct {
	actors []*Actor
	index  map[string]int
}

// NewActorSet creates an empty actor set.
func NewActorSet() *ActorSet {
	return &ActorSet{index: make(map[string]int)}
}

// Add inserts the actor, or merges its roles into the previously seen
// actor with the same identity.
func (s *ActorSet) Add(a *Actor) {
	key := a.IdentityKey()
	if i, ok := s.index[key]; ok {
		s.actors[i].AddRoles(a.Roles...)
		return
	}
	s.index[key] = len(s.actors)
	s.actors = append(s.actors, a)
}

// Actors returns the accumulated actors in encounter order.
func (s *ActorSet) Actors() []*Actor {
	return s.actors
}

// CountWithRole returns how many actors in the set hold the given role.
func (s *ActorSet) CountWithRole(role string) int {
	n := 0
	for _, a := range s.actors {
		if a.HasRole(role) {
			n++
		}
	}
	return n
}

// MultiplePublishersActor is the synthetic publisher substituted when a
// record names more than one distinct publisher. Metax allows exactly
// one publisher per dataset, so the real ones are replaced with a
// pointer back to the original metadata.
func MultiplePublishersActor() *Actor {
	return &Actor{
		Roles: []string{RolePublisher},
		Organization: &Organization{
			PrefLabel: map[string]string{
				"en": "Multiple publishers, check distribution rights holders " +
					"in original metadata by following its persistent identifier",
			},
		},
	}
}

// CollapsePublishers enforces the single-publisher rule on an actor
// list: every real actor loses its publisher role (actors left with no
// roles are dropped) and the synthetic multiple-publishers actor is
// appended.
func CollapsePublishers(actors []*Actor) []*Actor {
	cleaned := make([]*Actor, 0, len(actors)+1)
	for _, a := range actors {
		a.RemoveRole(RolePublisher)
		if len(a.Roles) > 0 {
			cleaned = append(cleaned, a)
		}
	}
	return append(cleaned, MultiplePublishersActor())
}
