package mapping

import (
	"reflect"
	"testing"
)

func TestEmbeddedProfiles(t *testing.T) {
	registry, err := NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry failed: %v", err)
	}

	want := []string{"cmdi", "metashare"}
	if got := registry.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List: got %v, want %v", got, want)
	}

	for _, name := range want {
		profile, ok := registry.Get(name)
		if !ok {
			t.Fatalf("profile %q not found", name)
		}
		if profile.Paths.PID == "" {
			t.Errorf("%s: empty PID location", name)
		}
		if profile.Paths.Title == "" {
			t.Errorf("%s: empty title location", name)
		}
		if len(profile.Paths.ResourceType) == 0 {
			t.Errorf("%s: no resource type locations", name)
		}
		if len(profile.Actors) != 4 {
			t.Errorf("%s: got %d actor locations, want 4", name, len(profile.Actors))
		}
		if !profile.Policies.AffiliationMandatory("publisher") {
			t.Errorf("%s: publisher affiliation not mandatory", name)
		}
		if profile.Policies.AffiliationMandatory("creator") {
			t.Errorf("%s: creator affiliation wrongly mandatory", name)
		}
	}
}

func TestProfileLookupIsCaseInsensitive(t *testing.T) {
	registry, err := NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry failed: %v", err)
	}

	if _, ok := registry.Get("CMDI"); !ok {
		t.Error("Get(CMDI) not found")
	}
	if _, ok := registry.Get("oai_dc"); ok {
		t.Error("Get(oai_dc) unexpectedly found")
	}
}

func TestDialectPolicies(t *testing.T) {
	registry, err := NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry failed: %v", err)
	}

	cmdi, _ := registry.Get("cmdi")
	if cmdi.Policies.SkipPersonlessActors {
		t.Error("cmdi: personless actors must fail the record, not be skipped")
	}
	if got := cmdi.Policies.LanguageCodeFallbacks["fi-easy"]; got != "fin" {
		t.Errorf("cmdi: fi-easy fallback: got %q, want fin", got)
	}

	metashare, _ := registry.Get("metashare")
	if !metashare.Policies.SkipPersonlessActors {
		t.Error("metashare: personless actors must be skipped")
	}
	if len(metashare.Policies.LanguageCodeFallbacks) != 0 {
		t.Errorf("metashare: unexpected language fallbacks %v",
			metashare.Policies.LanguageCodeFallbacks)
	}
}

func TestParseProfileRejectsBadYAML(t *testing.T) {
	if _, err := parseProfile([]byte("\tnot yaml")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
