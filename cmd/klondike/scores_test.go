package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/klondike/internal/storage"
)

func newScoresStore(t *testing.T) (*storage.Store, []string) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var ids []string
	for _, rec := range []storage.GameRecord{
		{Variant: "klondike", Won: true, Score: 120, Moves: 90, Duration: 3 * time.Minute, Player: "alice", DrawCount: 3},
		{Variant: "klondike", Score: 40, Moves: 30, Player: "bob", DrawCount: 1},
		{Variant: "klondike_ordered", Won: true, Score: 300, Moves: 100, Duration: time.Minute, Player: "alice", Solvable: true, DrawCount: 3},
	} {
		id, err := store.SaveGame(rec)
		if err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
		ids = append(ids, id)
	}
	return store, ids
}

func TestScoresViews(t *testing.T) {
	store, ids := newScoresStore(t)

	tests := []struct {
		name    string
		show    func(w *bytes.Buffer) error
		want    []string
		notWant []string
	}{
		{
			name:    "top scores limited",
			show:    func(w *bytes.Buffer) error { return showTopScores(w, store, "klondike", 1) },
			want:    []string{"High Scores - Klondike", "120", "Won 50% of 2 games"},
			notWant: []string{"bob"},
		},
		{
			name: "every score",
			show: func(w *bytes.Buffer) error { return showTopScores(w, store, "klondike", 0) },
			want: []string{"alice", "bob"},
		},
		{
			name: "recent games",
			show: func(w *bytes.Buffer) error { return showRecent(w, store, 10) },
			want: []string{"Recent games", ids[0], ids[1], ids[2]},
		},
		{
			name:    "player games",
			show:    func(w *bytes.Buffer) error { return showPlayer(w, store, "alice", 10) },
			want:    []string{"Games of alice", ids[0], ids[2]},
			notWant: []string{ids[1]},
		},
		{
			name: "unknown player",
			show: func(w *bytes.Buffer) error { return showPlayer(w, store, "carol", 10) },
			want: []string{"No games recorded for this player."},
		},
		{
			name: "one game",
			show: func(w *bytes.Buffer) error { return showGame(w, store, ids[2]) },
			want: []string{"Klondike (Ordered Deal) (draw 3, ordered deal)", "Score    300", "Result   won"},
		},
		{
			name: "all variants",
			show: func(w *bytes.Buffer) error { return showAllStats(w, store) },
			want: []string{"Statistics", "Klondike (Ordered Deal)", "100%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.show(&buf); err != nil {
				t.Fatalf("error: %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output has %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestScoresUnknownGame(t *testing.T) {
	store, _ := newScoresStore(t)
	var buf bytes.Buffer
	err := showGame(&buf, store, storage.NewID())
	if err == nil || !strings.Contains(err.Error(), "no game with ID") {
		t.Errorf("showGame() error = %v", err)
	}
}

func TestScoresClear(t *testing.T) {
	store, _ := newScoresStore(t)
	var buf bytes.Buffer
	if err := clearScores(&buf, store, "klondike"); err != nil {
		t.Fatalf("clearScores() failed: %v", err)
	}
	buf.Reset()
	if err := showTopScores(&buf, store, "klondike", 10); err != nil {
		t.Fatalf("showTopScores() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No games recorded yet.") {
		t.Errorf("cleared variant still lists games:\n%s", buf.String())
	}
	if all, _ := store.AllScores("klondike_ordered"); len(all) != 1 {
		t.Errorf("clearing klondike touched klondike_ordered: %d games", len(all))
	}
}
