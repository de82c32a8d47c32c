package history

import (
	"fmt"
	"time"

	"github.com/dshills/pixed/internal/engine/canvas"
)

// entry is one snapshot in the log.
type entry struct {
	canvas      *canvas.Canvas
	description string
	timestamp   time.Time
}

// EntryInfo provides read-only info about a log entry.
// Used for displaying the history to users.
type EntryInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the entry was recorded
	Current     bool      // Whether the cursor points at this entry
}

func describePaint(x, y int, color canvas.Color) string {
	return fmt.Sprintf("Paint (%d, %d) %s", x, y, color.Hex())
}

func describeClear(width, height int) string {
	return fmt.Sprintf("Clear %dx%d", width, height)
}

func describeNew(width, height int) string {
	return fmt.Sprintf("New %dx%d", width, height)
}
