// Package harvest fetches records from the source OAI-PMH catalog and
// drives one synchronization run against Metax.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/format"
)

// Defaults for the Kielipankki OAI-PMH endpoint.
const (
	DefaultMetadataPrefix = "cmdi"
	DefaultSet            = "FIN-CLARIN"
)

// oaiError is an error reported inside an OAI-PMH response envelope.
type oaiError struct {
	Code    string
	Message string
}

func (e *oaiError) Error() string {
	return fmt.Sprintf("OAI-PMH error (%s): %s", e.Code, e.Message)
}

// PMHClient iterates records from the source OAI-PMH catalog.
type PMHClient struct {
	// MetadataPrefix and Set select what is harvested.
	MetadataPrefix string
	Set            string

	endpoint   string
	httpClient *http.Client
	parser     *format.Parser
}

// NewPMHClient creates a source catalog client. The parser classifies
// and identifies harvested records; it determines the source dialect.
func NewPMHClient(endpoint string, parser *format.Parser) *PMHClient {
	return &PMHClient{
		MetadataPrefix: DefaultMetadataPrefix,
		Set:            DefaultSet,
		endpoint:       endpoint,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		parser:         parser,
	}
}

// Parser returns the record parser this client filters with.
func (c *PMHClient) Parser() *format.Parser {
	return c.parser
}

// ForEachRecord fetches all records new or changed since the given
// timestamp (all records when from is empty), following resumption
// tokens to completion, and calls fn for each non-deleted record
// element. A non-nil return from fn stops the iteration.
func (c *PMHClient) ForEachRecord(ctx context.Context, from string, fn func(*xmlquery.Node) error) error {
	params := url.Values{
		"verb":           {"ListRecords"},
		"metadataPrefix": {c.MetadataPrefix},
	}
	if c.Set != "" {
		params.Set("set", c.Set)
	}
	if from != "" {
		params.Set("from", from)
	}

	for {
		records, resumption, err := c.fetchPage(ctx, params)
		if err != nil {
			var oaiErr *oaiError
			// An empty selection is not an error for a harvester.
			if errors.As(err, &oaiErr) && oaiErr.Code == "noRecordsMatch" {
				return nil
			}
			return err
		}

		for _, rec := range records {
			if err := fn(rec); err != nil {
				return err
			}
		}

		if resumption == "" {
			return nil
		}
		params = url.Values{
			"verb":            {"ListRecords"},
			"resumptionToken": {resumption},
		}
	}
}

// ForEachCorpus iterates corpus-type records. Records whose resource
// type cannot be determined are reported to fn with a nil node and the
// classification error; fn decides whether that stops the iteration.
func (c *PMHClient) ForEachCorpus(ctx context.Context, from string, fn func(*xmlquery.Node, error) error) error {
	return c.ForEachRecord(ctx, from, func(node *xmlquery.Node) error {
		corpus, err := c.parser.IsCorpus(node)
		if err != nil {
			return fn(nil, err)
		}
		if !corpus {
			return nil
		}
		return fn(node, nil)
	})
}

// CorpusPIDs lists the PIDs of all corpora in the source catalog. Any
// classification or PID failure propagates: the caller must not compute
// deletions against a partial listing.
func (c *PMHClient) CorpusPIDs(ctx context.Context) ([]string, error) {
	var pids []string
	err := c.ForEachCorpus(ctx, "", func(node *xmlquery.Node, perr error) error {
		if perr != nil {
			return perr
		}
		pid, err := c.parser.PID(node)
		if err != nil {
			return err
		}
		pids = append(pids, pid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pids, nil
}

// fetchPage performs one ListRecords request and returns the record
// elements plus the resumption token for the next page, if any.
func (c *PMHClient) fetchPage(ctx context.Context, params url.Values) ([]*xmlquery.Node, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("building OAI-PMH request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching OAI-PMH page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching OAI-PMH page: HTTP %s", resp.Status)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("parsing OAI-PMH response: %w", err)
	}

	if errNode := xmlquery.FindOne(doc, "//error"); errNode != nil {
		return nil, "", &oaiError{
			Code:    errNode.SelectAttr("code"),
			Message: errNode.InnerText(),
		}
	}

	var records []*xmlquery.Node
	for _, rec := range xmlquery.Find(doc, "//ListRecords/record") {
		if isDeleted(rec) {
			continue
		}
		// Detach the record into its own document: the field locations
		// are absolute paths and must not escape into sibling records.
		standalone, err := xmlquery.Parse(strings.NewReader(rec.OutputXML(true)))
		if err != nil {
			return nil, "", fmt.Errorf("re-parsing record element: %w", err)
		}
		records = append(records, standalone)
	}

	resumption := ""
	if tokenNode := xmlquery.FindOne(doc, "//resumptionToken"); tokenNode != nil {
		resumption = strings.TrimSpace(tokenNode.InnerText())
	}
	return records, resumption, nil
}

// isDeleted reports whether the record header marks it deleted.
func isDeleted(rec *xmlquery.Node) bool {
	header := xmlquery.FindOne(rec, "header")
	return header != nil && header.SelectAttr("status") == "deleted"
}
