package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/storage"
)

// DailyStats holds the activity counters for one day.
type DailyStats struct {
	Date              string         `json:"date"`
	LostReports       int            `json:"lost_reports"`
	FoundReports      int            `json:"found_reports"`
	LostByCategory    map[string]int `json:"lost_by_category"`
	FoundByCategory   map[string]int `json:"found_by_category"`
	ChatMessages      int            `json:"chat_messages"`
	ChatFallbacks     int            `json:"chat_fallbacks"`
	ChatSessions      int            `json:"chat_sessions"`
	TotalLost         int            `json:"total_lost"`
	TotalFound        int            `json:"total_found"`
	UnparsedTimestamp int            `json:"unparsed_timestamps,omitempty"`
}

// AnalyzeDay counts reports created and chat turns relayed on the calendar day
// of targetDate, in targetDate's location. Item timestamps are local wall-clock
// strings and are read in that same location.
func AnalyzeDay(lost, found []items.Item, events []storage.Event, targetDate time.Time) *DailyStats {
	loc := targetDate.Location()
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:            startOfDay.Format("2006-01-02"),
		LostByCategory:  make(map[string]int),
		FoundByCategory: make(map[string]int),
		TotalLost:       len(lost),
		TotalFound:      len(found),
	}

	inDay := func(t time.Time) bool { return !t.Before(startOfDay) && t.Before(endOfDay) }

	count := func(coll []items.Item, n *int, byCat map[string]int) {
		for _, it := range coll {
			ts, err := time.ParseInLocation(items.TimestampLayout, it.Timestamp, loc)
			if err != nil {
				stats.UnparsedTimestamp++
				continue
			}
			if inDay(ts) {
				*n++
				byCat[it.Category]++
			}
		}
	}
	count(lost, &stats.LostReports, stats.LostByCategory)
	count(found, &stats.FoundReports, stats.FoundByCategory)

	sessions := make(map[string]bool)
	for _, ev := range events {
		if !inDay(ev.Timestamp) || ev.UserMessage == "" {
			continue
		}
		stats.ChatMessages++
		if !ev.Live {
			stats.ChatFallbacks++
		}
		sessions[ev.SessionKey] = true
	}
	stats.ChatSessions = len(sessions)
	return stats
}

// GenerateReportSummary renders the digest text sent to the administrator.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Lost & Found activity for %s\n\n", ds.Date)
	fmt.Fprintf(&b, "New lost reports: %d\n", ds.LostReports)
	writeCategories(&b, ds.LostByCategory)
	fmt.Fprintf(&b, "New found reports: %d\n", ds.FoundReports)
	writeCategories(&b, ds.FoundByCategory)
	fmt.Fprintf(&b, "\nAI chat: %d messages in %d sessions", ds.ChatMessages, ds.ChatSessions)
	if ds.ChatFallbacks > 0 {
		fmt.Fprintf(&b, " (%d answered with a fallback)", ds.ChatFallbacks)
	}
	fmt.Fprintf(&b, "\n\nTotals: %d lost, %d found, %d overall\n", ds.TotalLost, ds.TotalFound, ds.TotalLost+ds.TotalFound)
	return b.String()
}

func writeCategories(b *strings.Builder, byCat map[string]int) {
	names := make([]string, 0, len(byCat))
	for name := range byCat {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "  - %s: %d\n", name, byCat[name])
	}
}

// ToJSON returns the stats as indented JSON.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
