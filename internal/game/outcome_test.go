package game

import "testing"

func launchersWithHP(hp ...int) []*Launcher {
	var ls []*Launcher
	names := []string{"Left", "Right", "Third"}
	for i, h := range hp {
		l := newLauncher(names[i], 0, 0, 0, DefaultMaxHP, 15)
		l.id = EntityID(i + 1)
		l.HP = h
		ls = append(ls, l)
	}
	return ls
}

func TestDetermineOutcome(t *testing.T) {
	cases := []struct {
		name   string
		hp     []int
		result MatchResult
		winner string
	}{
		{"all standing", []int{3, 7}, ResultInProgress, ""},
		{"one destroyed", []int{0, 4}, ResultVictory, "Right"},
		{"overkill counts as destroyed", []int{5, -2}, ResultVictory, "Left"},
		{"mutual destruction", []int{0, -1}, ResultDraw, ""},
		{"survivors tied", []int{4, 0, 4}, ResultDraw, ""},
		{"best survivor wins", []int{2, 0, 6}, ResultVictory, "Third"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := DetermineOutcome(launchersWithHP(tc.hp...), 42)
			if out.Result != tc.result || out.Winner != tc.winner {
				t.Fatalf("got %s/%q, want %s/%q (%s)", out.Result, out.Winner, tc.result, tc.winner, out.Description)
			}
			if out.Tick != 42 {
				t.Fatalf("tick %d, want 42", out.Tick)
			}
		})
	}
}

func TestDetermineOutcome_WinnerDetails(t *testing.T) {
	out := DetermineOutcome(launchersWithHP(0, 6), 120)
	if out.WinnerID != 2 || out.WinnerHP != 6 {
		t.Fatalf("unexpected winner details %+v", out)
	}
	if len(out.Destroyed) != 1 || out.Destroyed[0] != "Left" {
		t.Fatalf("unexpected destroyed list %v", out.Destroyed)
	}
}
