package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Gentleman-Programming/taskboard/internal/tasks"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "taskboard is a small task tracker",
		Long: `taskboard keeps a single list of tasks in SQLite and serves it over HTTP.
The tui command is a terminal client for that API; mcp exposes the same
tasks to agents over stdio.

Environment:
  TASKBOARD_DATA_DIR   data directory (default: ~/.taskboard)
  TASKBOARD_PORT       HTTP port for serve (default: 7438)
  TASKBOARD_SERVER     API base URL for tui (default: http://127.0.0.1:7438)`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate("taskboard {{.Version}}\n")

	root.PersistentFlags().String("config", "", "config file (default: <data dir>/config.yaml)")
	root.PersistentFlags().String("data-dir", "", "data directory (default: ~/.taskboard)")

	root.AddCommand(
		newServeCmd(),
		newTUICmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cmdServe(cfg)
		},
	}
	cmd.Flags().Int("port", defaultPort, "port to listen on")
	cmd.Flags().String("host", defaultHost, "address to bind")
	return cmd
}

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cmdTUI(cfg)
		},
	}
	cmd.Flags().String("server", defaultServer, "taskboard API base URL")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cmdMCP(cfg)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard %s\n", version)
		},
	}
}

// ─── Commands ────────────────────────────────────────────────────────────────

func openService(cfg config) (*tasks.Service, func(), error) {
	s, err := storeNew(cfg.storeConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return tasks.NewService(s), func() { _ = s.Close() }, nil
}

func cmdServe(cfg config) error {
	svc, closeStore, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := newHTTPServer(svc, cfg.Port).WithHost(cfg.Host)
	log.Printf("[taskboard] data dir %s", cfg.DataDir)
	return startHTTP(srv)
}

func cmdMCP(cfg config) error {
	svc, closeStore, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return serveMCP(newMCPServer(svc))
}

func cmdTUI(cfg config) error {
	// The terminal owns stdout, so controller logs go to a file.
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := logToFile(filepath.Join(cfg.DataDir, "tui.log"), "")
	if err != nil {
		return fmt.Errorf("open tui log: %w", err)
	}
	defer f.Close()

	model := newTUIModel(newAPIClient(cfg.Server))
	p := newTeaProgram(model, tea.WithAltScreen())
	if _, err := runTeaProgram(p); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
