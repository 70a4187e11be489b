package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `metax_api_token: secret-token
metax_base_url: https://metax.demo.fairdata.fi/v3
metax_catalog_id: urn:nbn:fi:att:data-catalog-kielipankki
harvester_log_file: /var/log/metax-bridge/harvester.log
metax_api_log_file: /var/log/metax-bridge/metax_api.log
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.MetaxAPIToken != "secret-token" {
		t.Errorf("MetaxAPIToken: got %q", cfg.MetaxAPIToken)
	}
	if cfg.MetaxBaseURL != "https://metax.demo.fairdata.fi/v3" {
		t.Errorf("MetaxBaseURL: got %q", cfg.MetaxBaseURL)
	}
	if cfg.OAIPMHURL != DefaultOAIPMHURL {
		t.Errorf("OAIPMHURL default: got %q, want %q", cfg.OAIPMHURL, DefaultOAIPMHURL)
	}
}

func TestParseEndpointOverride(t *testing.T) {
	cfg, err := Parse([]byte(validConfig + "oai_pmh_url: https://example.fi/oai\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.OAIPMHURL != "https://example.fi/oai" {
		t.Errorf("OAIPMHURL: got %q", cfg.OAIPMHURL)
	}
}

func TestParseMissingMandatoryValue(t *testing.T) {
	withoutToken := strings.Replace(validConfig, "metax_api_token: secret-token\n", "", 1)

	_, err := Parse([]byte(withoutToken))
	if err == nil {
		t.Fatal("expected error for missing metax_api_token")
	}
	if !strings.Contains(err.Error(), "metax_api_token") {
		t.Errorf("error does not name the missing key: %v", err)
	}
}

func TestParseRejectsNonYAML(t *testing.T) {
	if _, err := Parse([]byte("\tthis is not: yaml")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(validConfig), 0o600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MetaxCatalogID != "urn:nbn:fi:att:data-catalog-kielipankki" {
		t.Errorf("MetaxCatalogID: got %q", cfg.MetaxCatalogID)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for a missing configuration file")
	}
}

func TestLoadTemplate(t *testing.T) {
	// The shipped template must stay loadable.
	if _, err := Load("template.yml"); err != nil {
		t.Errorf("template.yml: %v", err)
	}
}
