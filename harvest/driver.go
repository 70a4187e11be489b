package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/antchfx/xmlquery"

	"github.com/CSCfi/kielipankki-metax-bridge/metax"
	"github.com/CSCfi/kielipankki-metax-bridge/record"
)

// Stats summarizes one synchronization run.
type Stats struct {
	// Harvested counts records successfully mapped and sent to Metax.
	Harvested int
	// Faulty counts records that could not be mapped or sent. Faulty
	// records are reported individually and do not stop the run.
	Faulty int
	// Deleted counts Metax records removed because their PID is no
	// longer in the source catalog.
	Deleted int
}

// Driver sequences one full synchronization run: harvest new and
// changed records since the last successful run, send each to Metax,
// then delete Metax records that no longer exist in the source.
type Driver struct {
	source *PMHClient
	dest   *metax.Client
	runLog *RunLog
	logger *slog.Logger
}

// NewDriver wires a synchronization driver.
func NewDriver(source *PMHClient, dest *metax.Client, runLog *RunLog) *Driver {
	return &Driver{
		source: source,
		dest:   dest,
		runLog: runLog,
		logger: slog.Default(),
	}
}

// Run performs one synchronization pass. Per-record mapping and send
// failures are tallied in Stats and reported; infrastructure failures
// (source transport, vocabulary fetch, deletion-pass listing) abort the
// run with an error. The run log gains a Success line only when the
// whole pass completed, so an aborted run is re-harvested in full next
// time.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	since, err := d.runLog.LastSuccessfulStart()
	if err != nil {
		return stats, err
	}
	if err := d.runLog.Append(startedMarker); err != nil {
		return stats, err
	}

	if since == "" {
		d.logger.Info("harvesting all records")
	} else {
		d.logger.Info("harvesting records", "since", since)
	}

	err = d.source.ForEachCorpus(ctx, since, func(node *xmlquery.Node, classifyErr error) error {
		if classifyErr != nil {
			stats.Faulty++
			d.logger.Error("skipping record", "error", classifyErr)
			return nil
		}
		return d.syncRecord(ctx, node, &stats)
	})
	if err != nil {
		return stats, err
	}

	if err := d.deletionPass(ctx, &stats); err != nil {
		return stats, err
	}

	if since == "" {
		err = d.runLog.Append("Success, all records harvested")
	} else {
		err = d.runLog.Append("Success, records harvested since " + since)
	}
	return stats, err
}

// syncRecord maps one source record and sends it to Metax. Mapping
// failures and rejected payloads are tallied per record; anything else
// (a vocabulary fetch failure, a Metax transport or authorization
// failure) aborts the harvest.
func (d *Driver) syncRecord(ctx context.Context, node *xmlquery.Node, stats *Stats) error {
	rec, err := d.source.Parser().Parse(ctx, node)
	if err != nil {
		var parseErr *record.ParsingError
		if errors.As(err, &parseErr) {
			stats.Faulty++
			d.logger.Error("skipping record", "pid", parseErr.Identifier, "error", parseErr.Message)
			return nil
		}
		return err
	}

	if err := d.dest.Send(ctx, rec); err != nil {
		// Only a rejected payload is a per-record problem. Transport,
		// authorization and URL failures would fail every remaining
		// record too, so the run aborts without a Success line and the
		// next run re-harvests the full window.
		if !metax.RecordRejected(err) {
			return fmt.Errorf("sending record %s: %w", rec.PersistentIdentifier, err)
		}
		stats.Faulty++
		d.logger.Error("failed to send record", "pid", rec.PersistentIdentifier, "error", err)
		return nil
	}

	stats.Harvested++
	return nil
}

// deletionPass removes Metax records whose PID is absent from a full
// source re-listing. Any failure while building the retained PID set
// aborts the pass: deleting against a partial listing could remove
// records that still exist.
func (d *Driver) deletionPass(ctx context.Context, stats *Stats) error {
	pids, err := d.source.CorpusPIDs(ctx)
	if err != nil {
		return fmt.Errorf("deletion pass aborted: %w", err)
	}

	deleted, err := d.dest.DeleteRecordsNotIn(ctx, pids)
	stats.Deleted = deleted
	if err != nil {
		return fmt.Errorf("deleting stale records: %w", err)
	}
	if deleted > 0 {
		d.logger.Info("deleted records missing from source", "count", deleted)
	}
	return nil
}
