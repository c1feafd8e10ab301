package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/mcptools"
	"campus-lostfound/internal/storage"
	"campus-lostfound/internal/store"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	log.Printf("🚀 Starting Lost & Found MCP Server")

	cfg := config.New()
	st := store.New(storage.NewFileSnapshotRepository(cfg.DataFilePath))
	if err := st.Load(); err != nil {
		log.Printf("⚠️ starting with empty collections: %v", err)
	}

	server := mcptools.NewMCPServer(st)

	log.Printf("🔗 Starting Lost & Found MCP server on stdin/stdout...")
	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Lost & Found MCP Server failed: %v", err)
	}
}
