package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"planboard/internal/infrastructure/storage"
	"planboard/internal/whiteboard"
	"time"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) < 1 {
		printHelp(w)
		return nil
	}

	switch args[0] {
	case "info":
		if len(args) < 2 {
			return fmt.Errorf("usage: planinspect info <file.wbpl>")
		}
		snap, err := load(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "saved:   %s\n", time.Unix(snap.Timestamp, 0).UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "turn:    %d (side %d)\n", snap.Turn, snap.CurrentSide)
		fmt.Fprintf(w, "sides:   %d\n", snap.Sides)
		counts := make([]int, snap.Sides)
		for _, e := range snap.Entries {
			if e.Side >= 0 && e.Side < len(counts) {
				counts[e.Side]++
			}
		}
		for side, n := range counts {
			fmt.Fprintf(w, "side %d:  %d actions\n", side, n)
		}
	case "dump":
		if len(args) < 2 {
			return fmt.Errorf("usage: planinspect dump <file.wbpl>")
		}
		snap, err := load(args[1])
		if err != nil {
			return err
		}
		records := make([]whiteboard.Record, 0, len(snap.Entries))
		for i, e := range snap.Entries {
			var rec whiteboard.Record
			if err := json.Unmarshal(e.Payload, &rec); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			records = append(records, rec)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		printHelp(w)
	}
	return nil
}

func load(path string) (*storage.Snapshot, error) {
	store := &storage.PlanStore{SaveDir: filepath.Dir(path)}
	return store.Load(path)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Plan Inspect - просмотр снимков планов (.wbpl)
Commands:
  info <file>   - заголовок снимка и число действий по сторонам
  dump <file>   - все действия в JSON`)
}
