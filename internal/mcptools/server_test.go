package mcptools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/store"
)

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestReportLost(t *testing.T) {
	st := store.New(nil)
	s := New(st)

	res, err := s.ReportLost(context.Background(), nil, &mcp.CallToolParamsFor[ReportParams]{Arguments: ReportParams{
		Name: "Ali", Contact: "0300", Category: "keys", Description: "Car keys", Location: "Gym",
	}})
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	if got := text(t, res); got != "✅ Report LOST-1 saved successfully!" {
		t.Fatalf("unexpected text: %q", got)
	}
	if lost := st.Lost(); len(lost) != 1 || lost[0].Category != "Keys" {
		t.Fatalf("unexpected store contents: %+v", lost)
	}
}

func TestReportFound_Invalid(t *testing.T) {
	st := store.New(nil)
	s := New(st)

	res, err := s.ReportFound(context.Background(), nil, &mcp.CallToolParamsFor[ReportParams]{Arguments: ReportParams{Name: "Sara"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError || !strings.Contains(text(t, res), "missing required fields") {
		t.Fatalf("expected validation error, got %+v", res)
	}
	if len(st.Found()) != 0 {
		t.Fatalf("invalid report must not be stored")
	}
}

func TestSearch(t *testing.T) {
	st := store.New(nil)
	st.CreateFound(items.Fields{ReporterName: "Sara", Contact: "0311", Category: "Laptop", Description: "Dell XPS", Location: "Main Library"})
	s := New(st)

	res, _ := s.Search(context.Background(), nil, &mcp.CallToolParamsFor[SearchParams]{Arguments: SearchParams{Kind: "found", Query: "dell"}})
	got := text(t, res)
	if !strings.Contains(got, "FOUND-1") || !strings.Contains(got, "Finder Contact: 0311") {
		t.Fatalf("unexpected search output: %q", got)
	}

	res, _ = s.Search(context.Background(), nil, &mcp.CallToolParamsFor[SearchParams]{Arguments: SearchParams{Kind: "found", Query: "  library "}})
	if !strings.Contains(text(t, res), "FOUND-1") {
		t.Fatalf("padded query should be trimmed: %q", text(t, res))
	}

	res, _ = s.Search(context.Background(), nil, &mcp.CallToolParamsFor[SearchParams]{Arguments: SearchParams{Kind: "lost", Query: "dell"}})
	if !strings.Contains(text(t, res), "No matching items") {
		t.Fatalf("lost search should be empty")
	}

	res, _ = s.Search(context.Background(), nil, &mcp.CallToolParamsFor[SearchParams]{Arguments: SearchParams{Kind: "stolen"}})
	if !res.IsError {
		t.Fatalf("unknown kind must be an error result")
	}
}

func TestStatistics(t *testing.T) {
	st := store.New(nil)
	st.CreateLost(items.Fields{Category: "Bag", Description: strings.Repeat("y", 90)})
	s := New(st)

	res, _ := s.Statistics(context.Background(), nil, &mcp.CallToolParamsFor[StatsParams]{})
	got := text(t, res)
	if !strings.Contains(got, "Lost Items: 1") || !strings.Contains(got, strings.Repeat("y", 80)+"...") {
		t.Fatalf("unexpected statistics: %q", got)
	}
}
