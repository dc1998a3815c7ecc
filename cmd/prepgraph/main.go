// Command prepgraph is the CLI for the prepgraph exam preparation assistant.
//
// Usage:
//
//	prepgraph run --config config.yaml notes.pdf
//	prepgraph run https://www.youtube.com/watch?v=dQw4w9WgXcQ
//	prepgraph chat "What topics repeat most often?"
//	prepgraph chat
//	prepgraph serve --config config.yaml
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/runtime"
	"github.com/prepgraph/prepgraph/pkg/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Run     RunCmd     `cmd:"" help:"Run the agent pipeline over a document or video link."`
	Chat    ChatCmd    `cmd:"" help:"Ask a question against the stored material."`
	Query   QueryCmd   `cmd:"" help:"Run a raw similarity query over stored analyses."`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP server."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (text, json)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("prepgraph version %s\n", version)
	return nil
}

// RunCmd triggers one orchestration run.
type RunCmd struct {
	Input string `arg:"" help:"Path to a document, or a YouTube link."`
}

func (c *RunCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, _ *config.Config, rt *runtime.Runtime) error {
		state, err := rt.Run(ctx, c.Input)
		if err != nil {
			return err
		}

		for _, msg := range state.Messages {
			label := string(msg.Role)
			if msg.Name != "" {
				label = msg.Name
			}
			fmt.Printf("[%s] %s\n\n", label, msg.Content)
		}
		fmt.Printf("Run finished: cause=%s steps=%d\n", state.Cause, state.Steps)
		return nil
	})
}

// ChatCmd answers a single question, or starts an interactive session when no
// question is given.
type ChatCmd struct {
	Question string `arg:"" optional:"" help:"Question to answer. Omit to start an interactive session."`
}

func (c *ChatCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, _ *config.Config, rt *runtime.Runtime) error {
		if c.Question == "" {
			return chatLoop(ctx, os.Stdin, os.Stdout, rt.Answer)
		}

		answer, err := rt.Answer(ctx, c.Question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	})
}

// QueryCmd runs a raw similarity query over stored analyses.
type QueryCmd struct {
	Query string `arg:"" help:"Similarity query text."`
	K     int    `short:"k" help:"Number of results." default:"5"`
	Type  string `help:"Filter by result type (summary, trend_analysis, video_summary)."`
}

func (c *QueryCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, _ *config.Config, rt *runtime.Runtime) error {
		var filter map[string]interface{}
		if c.Type != "" {
			filter = map[string]interface{}{"type": c.Type}
		}

		result := rt.Search(ctx, c.Query, c.K, filter)
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides config)."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, cfg *config.Config, rt *runtime.Runtime) error {
		addr := c.Addr
		if addr == "" {
			addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		}

		srv := server.New(rt, addr)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Server shutdown failed", "error", err)
			}
		}()

		return srv.ListenAndServe()
	})
}

// withRuntime loads configuration, assembles the runtime and runs fn with a
// signal-cancelled context.
func withRuntime(cli *CLI, fn func(context.Context, *config.Config, *runtime.Runtime) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	rt, err := runtime.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble runtime: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("Runtime close failed", "error", err)
		}
	}()

	return fn(ctx, cfg, rt)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func main() {
	// Load .env before anything reads the environment; missing files are fine.
	_ = godotenv.Load()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("prepgraph"),
		kong.Description("Multi-agent exam preparation assistant."),
		kong.UsageOnError(),
	)

	cleanup, err := initLogger(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := kctx.Run(cli); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
