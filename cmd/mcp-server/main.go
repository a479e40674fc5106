// Command mcp-server exposes the coffee machine as MCP tools over
// streamable HTTP, so agents can inspect and operate the machine.
// It shares the storage configuration with the main server, so both
// can run against the same state.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/config"
	"github.com/rhuss/kaffee/pkg/machine"
	"github.com/rhuss/kaffee/pkg/observability"
	"github.com/rhuss/kaffee/pkg/storage"
	"github.com/rhuss/kaffee/pkg/storage/file"
	"github.com/rhuss/kaffee/pkg/storage/memory"
	"github.com/rhuss/kaffee/pkg/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := buildStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	eng, err := machine.New(store, machine.DefaultCatalog(), machine.Config{
		WaterCapacityML: cfg.Machine.WaterCapacityML,
		CoffeeCapacityG: cfg.Machine.CoffeeCapacityG,
	})
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	server := newMCPServer(eng)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("mcp server starting", slog.String("addr", addr), slog.String("storage", cfg.Storage.Type))
	return http.ListenAndServe(addr, mux)
}

// newMCPServer builds the MCP server with the machine tools registered.
func newMCPServer(eng *machine.Engine) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "kaffee-mcp", Version: "v1.0.0"},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "machine_status",
		Description: "Returns the coffee machine's container levels and the last action message",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
		state, err := eng.Status(ctx)
		if err != nil {
			return toolError(err), struct{}{}, nil
		}
		return textResult(formatState(state)), struct{}{}, nil
	})

	type BrewInput struct {
		Drink string `json:"drink" jsonschema_description:"The drink to brew, e.g. espresso, double-espresso, ristretto, americano"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "brew_coffee",
		Description: "Brews the named drink, consuming water and ground coffee",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input BrewInput) (*mcp.CallToolResult, struct{}, error) {
		state, used, err := eng.Brew(ctx, input.Drink)
		if err != nil {
			return toolError(err), struct{}{}, nil
		}
		text := fmt.Sprintf("%s Used %d ml of water and %d g of coffee.\n%s",
			state.LastMessage, used.WaterML, used.CoffeeG, formatState(state))
		return textResult(text), struct{}{}, nil
	})

	type FillInput struct {
		Container string `json:"container" jsonschema_description:"The container to fill: water or coffee"`
		Amount    int    `json:"amount" jsonschema_description:"Amount to add, in ml for water or g for coffee"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fill_container",
		Description: "Adds water or ground coffee to the corresponding container",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input FillInput) (*mcp.CallToolResult, struct{}, error) {
		kind, err := api.ParseContainerKind(input.Container)
		if err != nil {
			return toolError(err), struct{}{}, nil
		}
		state, err := eng.Fill(ctx, kind, input.Amount)
		if err != nil {
			return toolError(err), struct{}{}, nil
		}
		return textResult(state.LastMessage + "\n" + formatState(state)), struct{}{}, nil
	})

	return server
}

// formatState renders the snapshot as a short human-readable summary.
func formatState(state *api.MachineState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Water: %d/%d %s. Coffee: %d/%d %s.",
		state.Water.Level, state.Water.Capacity, state.Water.Unit,
		state.Coffee.Level, state.Coffee.Capacity, state.Coffee.Unit)
	return b.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

// buildStore mirrors the main server's backend selection.
func buildStore(ctx context.Context, cfg *config.Config) (storage.StateStore, error) {
	var (
		store storage.StateStore
		err   error
	)
	switch cfg.Storage.Type {
	case "file":
		store, err = file.New(cfg.Storage.File.Path)
	case "postgres":
		store, err = postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	case "memory":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	return observability.InstrumentStore(store), nil
}
