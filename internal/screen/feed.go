package screen

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 11
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Label    string // e.g. "L1", "P7"
	Category string
	Message  string
}

// EventFeed is a ring buffer of recent simulation events rendered beside the
// field. It follows a SimLog by remembering how far it has read.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
	read    int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry to the feed.
func (f *EventFeed) Add(tick int, label, category, msg string) {
	f.entries[f.head] = FeedEntry{
		Tick:     tick,
		Label:    label,
		Category: category,
		Message:  msg,
	}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Follow copies log entries added since the last call. Verbose movement
// entries are skipped.
func (f *EventFeed) Follow(log *game.SimLog) {
	entries := log.Entries()
	if f.read > len(entries) {
		f.read = 0
	}
	for _, e := range entries[f.read:] {
		if e.Category == "move" {
			continue
		}
		f.Add(e.Tick, e.Entity, e.Category, e.Key+" "+e.Value)
	}
	f.read = len(entries)
}

// Clear empties the feed and restarts following from the beginning of the
// next log.
func (f *EventFeed) Clear() {
	f.head, f.count, f.read = 0, 0, 0
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

func categoryColor(cat string) color.RGBA {
	switch cat {
	case "fire":
		return color.RGBA{R: 230, G: 200, B: 60, A: 255}
	case "blast":
		return color.RGBA{R: 240, G: 120, B: 40, A: 255}
	case "hit":
		return color.RGBA{R: 220, G: 60, B: 60, A: 255}
	case "weapon":
		return color.RGBA{R: 90, G: 200, B: 230, A: 255}
	default:
		return color.RGBA{R: 120, G: 140, B: 120, A: 255}
	}
}

// Draw renders the feed panel at panelX.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 70, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 20, G: 26, B: 32, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 70, B: 80, A: 200}, false)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / feedLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 30, G: 36, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)

		line := fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message)
		if len(line) > 50 {
			line = line[:50]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += feedLineHeight
	}
}
