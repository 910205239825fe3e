package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/pkg/adapters/file"
	"github.com/aretw0/travspan/pkg/adapters/redis"
	"github.com/aretw0/travspan/pkg/ports"
)

// OpenStore returns the snapshot store selected by the flags: redis when an
// address is set, a directory of JSON files when dir is set, otherwise nil.
// The returned close function is always safe to call.
func OpenStore(rc config.Redis, dir string) (ports.SnapshotStore, func() error) {
	if rc.Addr != "" {
		rs := openRedis(rc)
		return rs, rs.Close
	}
	if dir != "" {
		return file.New(dir), func() error { return nil }
	}
	return nil, func() error { return nil }
}

func openRedis(rc config.Redis) *redis.Store {
	var opts []redis.Option
	if rc.Prefix != "" {
		opts = append(opts, redis.WithPrefix(rc.Prefix))
	}
	if rc.TTL > 0 {
		opts = append(opts, redis.WithTTL(rc.TTL))
	}
	return redis.New(rc.Addr, rc.Password, rc.DB, opts...)
}

// ListRuns prints the stored run IDs.
func ListRuns(ctx context.Context, w io.Writer, store ports.SnapshotStore) error {
	runs, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		_, err = fmt.Fprintln(w, "No stored runs found.")
		return err
	}
	fmt.Fprintln(w, "Stored runs:")
	for _, id := range runs {
		snap, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "- %s (unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(w, "- %s  %s  step %d, next %s\n", id, snap.Config.Algorithm, snap.Counters.Steps, snap.Step)
	}
	return nil
}

// InspectRun prints the snapshot of one run as indented JSON.
func InspectRun(ctx context.Context, w io.Writer, store ports.SnapshotStore, id string) error {
	snap, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("loading run '%s': %w", id, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// RemoveRuns deletes the given runs, reporting each, and joins the failures.
func RemoveRuns(ctx context.Context, w io.Writer, store ports.SnapshotStore, ids ...string) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("removing '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Removed run '%s'\n", id)
	}
	return errors.Join(errs...)
}
