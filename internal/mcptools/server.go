// Package mcptools exposes the record store as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/store"
)

const recentActivityLimit = 10

// ReportParams are the arguments of both report tools.
type ReportParams struct {
	Name        string `json:"name" mcp:"full name of the reporter"`
	Contact     string `json:"contact" mcp:"contact number, e.g. 03XX-XXXXXXX"`
	Category    string `json:"category" mcp:"one of: Mobile, Wallet, Keys, Laptop, Bag, ID Card, Books, Charger, Headphones, Other"`
	Description string `json:"description" mcp:"color, brand, model, distinctive features"`
	Location    string `json:"location" mcp:"where the item was lost or found"`
}

type SearchParams struct {
	Kind  string `json:"kind" mcp:"lost or found"`
	Query string `json:"query,omitempty" mcp:"keywords matched against description, category and location; empty lists everything"`
}

type StatsParams struct{}

type Server struct {
	store *store.Store
}

func New(st *store.Store) *Server {
	return &Server{store: st}
}

// NewMCPServer registers every lost-and-found tool on a fresh MCP server.
func NewMCPServer(st *store.Store) *mcp.Server {
	s := New(st)
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "campus-lostfound-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report_lost_item",
		Description: "Records a lost item report and returns its LOST-<id> reference",
	}, s.ReportLost)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report_found_item",
		Description: "Records a found item report and returns its FOUND-<id> reference",
	}, s.ReportFound)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_items",
		Description: "Searches lost or found reports by keyword",
	}, s.Search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_statistics",
		Description: "Returns report counts and the most recent activity",
	}, s.Statistics)

	log.Printf("📋 Registered MCP tools: report_lost_item, report_found_item, search_items, get_statistics")
	return server
}

func (s *Server) ReportLost(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ReportParams]) (*mcp.CallToolResultFor[any], error) {
	return s.report(items.KindLost, params.Arguments)
}

func (s *Server) ReportFound(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ReportParams]) (*mcp.CallToolResultFor[any], error) {
	return s.report(items.KindFound, params.Arguments)
}

func (s *Server) report(kind items.Kind, args ReportParams) (*mcp.CallToolResultFor[any], error) {
	fields := items.Fields{
		ReporterName: args.Name,
		Contact:      args.Contact,
		Category:     args.Category,
		Description:  args.Description,
		Location:     args.Location,
	}.Normalize()
	if err := fields.Validate(); err != nil {
		return errorResult(fmt.Sprintf("❌ Please fill all required fields! (%v)", err)), nil
	}

	item, err := s.store.Create(kind, fields)
	var perr *store.PersistError
	if err != nil && !errors.As(err, &perr) {
		return errorResult(fmt.Sprintf("❌ Could not save the report: %v", err)), nil
	}

	ref := fmt.Sprintf("%s-%d", kind.Label(), item.ID)
	log.Printf("📝 MCP: stored %s", ref)
	text := fmt.Sprintf("✅ Report %s saved successfully!", ref)
	if perr != nil {
		text += "\n⚠️ The report could not be written to disk yet; it is kept for this session."
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		Meta: map[string]interface{}{
			"success":   true,
			"reference": ref,
			"id":        item.ID,
			"persisted": perr == nil,
		},
	}, nil
}

func (s *Server) Search(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	kind, err := items.ParseKind(args.Kind)
	if err != nil {
		return errorResult(fmt.Sprintf("❌ %v (use lost or found)", err)), nil
	}

	results := s.store.Search(kind, strings.TrimSpace(args.Query))
	if len(results) == 0 {
		return textResult("📭 No matching items found. Try different keywords or check other category."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d matching item(s)\n", len(results))
	for _, it := range results {
		fmt.Fprintf(&b, "\n**%s-%d: %s**\n", kind.Label(), it.ID, it.Category)
		fmt.Fprintf(&b, "- Description: %s\n", it.Description)
		fmt.Fprintf(&b, "- Location: %s\n", it.Location)
		fmt.Fprintf(&b, "- Reporter: %s\n", it.ReporterName)
		fmt.Fprintf(&b, "- %s: %s\n", kind.ContactLabel(), it.Contact)
		fmt.Fprintf(&b, "- Reported: %s\n", it.Timestamp)
	}
	return textResult(b.String()), nil
}

func (s *Server) Statistics(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[StatsParams]) (*mcp.CallToolResultFor[any], error) {
	st := s.store.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "Lost Items: %d\nFound Items: %d\nTotal Reports: %d\n\n", st.Lost, st.Found, st.Total)
	b.WriteString("**Recent Activity**\n")
	recent := s.store.Recent(recentActivityLimit)
	if len(recent) == 0 {
		b.WriteString("No activity yet.\n")
	}
	for _, a := range recent {
		fmt.Fprintf(&b, "- %s: %s - %s (%s)\n", a.Kind.Title(), a.Category, items.Truncate(a.Description, 80), a.Timestamp)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: b.String()},
		},
		Meta: map[string]interface{}{
			"lost":  st.Lost,
			"found": st.Found,
			"total": st.Total,
		},
	}, nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
