package main

import (
	"bytes"
	"encoding/json"
	"planboard/internal/domain"
	"planboard/internal/infrastructure/storage"
	"planboard/internal/whiteboard"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	store, err := storage.NewPlanStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	r := whiteboard.NewRecruit(1, domain.PackUnitID(2, 0, 4), "spearman", domain.Hex{Q: 2, R: 1}, 14)
	payload, err := json.Marshal(whiteboard.RecordOf(r))
	if err != nil {
		t.Fatal(err)
	}
	path, err := store.Save(&storage.Snapshot{
		Timestamp: 1767225600, // 2026-01-01
		Turn:      3,
		Sides:     2,
		Entries:   []storage.Entry{{Side: 1, Kind: uint8(whiteboard.KindRecruit), Payload: payload}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{name: "help", args: nil, want: []string{"Commands:"}},
		{name: "info", args: []string{"info", path}, want: []string{"2026-01-01T00:00:00Z", "turn:    3", "side 1:  1 actions"}},
		{name: "dump", args: []string{"dump", path}, want: []string{`"unitType": "spearman"`, r.ID().String()}},
		{name: "info without file", args: []string{"info"}, wantErr: true},
		{name: "missing file", args: []string{"dump", path + ".nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output does not contain %q:\n%s", w, out.String())
				}
			}
		})
	}
}
