package game

import (
	"strings"
	"testing"
)

func TestSimLog_FilterAndQueries(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "L1", "fire", "launch", "P3 angle=0.30", 0.3)
	sl.Add(4, "P3", "blast", "detonate", "at (10.0,20.0)", 1)
	sl.Add(5, "P3", "hit", "launcher", "L2 at d=4.0", 4)
	sl.Add(9, "L1", "fire", "launch", "P4 angle=0.25", 0.25)
	sl.AddVerbose(9, "P4", "move", "position", "(1,1)", 1)

	if sl.Len() != 4 {
		t.Fatalf("verbose entry recorded with verbose off: %d entries", sl.Len())
	}
	if n := sl.CountCategory("fire", "launch"); n != 2 {
		t.Fatalf("expected 2 launches, got %d", n)
	}
	if n := len(sl.Filter("", "")); n != 4 {
		t.Fatalf("empty filter should match everything, got %d", n)
	}
	if n := len(sl.FilterEntity("P3")); n != 2 {
		t.Fatalf("expected 2 entries for P3, got %d", n)
	}
	if n := len(sl.FilterTickRange(4, 5)); n != 2 {
		t.Fatalf("expected 2 entries in [4,5], got %d", n)
	}
	last, ok := sl.LastOf("fire", "launch")
	if !ok || last.Tick != 9 {
		t.Fatalf("LastOf = %+v, %v", last, ok)
	}
	if _, ok := sl.LastOf("state", "game_over"); ok {
		t.Fatal("LastOf should miss")
	}
	if !sl.HasEntry("hit", "", "L2") || sl.HasEntry("hit", "", "L1") {
		t.Fatal("HasEntry substring match failed")
	}
	if tail := sl.Tail(2); len(tail) != 2 || tail[1].Tick != 9 {
		t.Fatalf("unexpected tail %+v", tail)
	}
	sl.AddOwned(10, "P4", 2, "hit", "obstacle", "O5", 1)
	if got := sl.FilterOwner(2, "hit", ""); len(got) != 1 || got[0].Entity != "P4" {
		t.Fatalf("FilterOwner = %+v", got)
	}
	if got := sl.FilterOwner(NoEntity, "hit", ""); len(got) != 1 || got[0].Tick != 5 {
		t.Fatalf("unowned entries should keep NoEntity, got %+v", got)
	}
	if tail := sl.Tail(50); len(tail) != 5 {
		t.Fatalf("tail longer than the log should return everything, got %d", len(tail))
	}
}

func TestSimLog_VerboseRecordsMoves(t *testing.T) {
	sl := NewSimLog(true)
	sl.AddVerbose(1, "P1", "move", "position", "(1,1)", 1)
	if sl.Len() != 1 || !sl.Verbose() {
		t.Fatal("verbose log should record move entries")
	}
}

func TestSimLogEntry_StringFixedWidth(t *testing.T) {
	e := SimLogEntry{Tick: 42, Entity: "P7", Category: "blast", Key: "detonate", Value: "at (412.0,301.5)"}
	want := "[T=0042] P7   blast    detonate        at (412.0,301.5)"
	if got := e.String(); got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestSimLog_SummaryReportsLaunchers(t *testing.T) {
	w := flatWorld(t)
	place(w, 795, 100, 10, 0)
	w.Tick()
	s := w.Log.Summary(w)
	for _, want := range []string{"T=0001", "(Left)", "(Right)", "Fizzles=1"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}
