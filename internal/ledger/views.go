package ledger

import (
	"sort"
	"time"

	"github.com/nkhatri/udhaar/internal/models"
)

// Window is a presentation-layer re-sort/re-filter of an already fetched
// transaction set. It never changes what is recorded, only what a view
// shows.
type Window string

const (
	// WindowLatest is the default view: newest entries first.
	WindowLatest Window = "latest"

	// WindowOldest shows oldest entries first.
	WindowOldest Window = "oldest"

	// WindowWeek keeps entries from the last 7 days, newest first.
	WindowWeek Window = "week"

	// WindowMonth keeps entries from the last 30 days, newest first.
	WindowMonth Window = "month"
)

// ParseWindow converts a query string into a Window. An empty or unknown
// value falls back to WindowLatest rather than erroring: the window is a
// display preference, not part of the ledger contract.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowOldest:
		return WindowOldest
	case WindowWeek:
		return WindowWeek
	case WindowMonth:
		return WindowMonth
	}
	return WindowLatest
}

// SortNewestFirst orders transactions by timestamp descending, breaking
// millisecond ties by insert sequence so the order is stable. Under this
// order an append extends the history without reordering what was already
// there.
func SortNewestFirst(txs []*models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp > txs[j].Timestamp
		}
		return txs[i].Seq > txs[j].Seq
	})
}

// ApplyWindow applies the window to a fetched set and returns the viewed
// slice. now anchors the week/month cutoffs.
func ApplyWindow(txs []*models.Transaction, w Window, now time.Time) []*models.Transaction {
	viewed := make([]*models.Transaction, len(txs))
	copy(viewed, txs)
	SortNewestFirst(viewed)

	switch w {
	case WindowOldest:
		for i, j := 0, len(viewed)-1; i < j; i, j = i+1, j-1 {
			viewed[i], viewed[j] = viewed[j], viewed[i]
		}
	case WindowWeek:
		viewed = since(viewed, now.AddDate(0, 0, -7))
	case WindowMonth:
		viewed = since(viewed, now.AddDate(0, 0, -30))
	}
	return viewed
}

// since keeps entries at or after the cutoff. Input is newest first, so
// the kept prefix preserves order.
func since(txs []*models.Transaction, cutoff time.Time) []*models.Transaction {
	cutoffMillis := cutoff.UnixMilli()
	var kept []*models.Transaction
	for _, tx := range txs {
		if tx.Timestamp >= cutoffMillis {
			kept = append(kept, tx)
		}
	}
	return kept
}
