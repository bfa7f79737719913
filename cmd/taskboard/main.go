// Command taskboard runs the task tracker: the HTTP API, the terminal client
// and the MCP stdio server.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Gentleman-Programming/taskboard/internal/app"
	"github.com/Gentleman-Programming/taskboard/internal/client"
	taskmcp "github.com/Gentleman-Programming/taskboard/internal/mcp"
	"github.com/Gentleman-Programming/taskboard/internal/server"
	"github.com/Gentleman-Programming/taskboard/internal/store"
	"github.com/Gentleman-Programming/taskboard/internal/tasks"
	"github.com/Gentleman-Programming/taskboard/internal/tui"
)

var version = "dev"

// Runtime seams, swapped in tests.
var (
	storeNew      = store.New
	newHTTPServer = func(svc *tasks.Service, port int) *server.Server { return server.New(svc, port) }
	startHTTP     = func(s *server.Server) error { return s.Start() }
	newMCPServer  = taskmcp.NewServer
	serveMCP      = mcpserver.ServeStdio
	newAPIClient  = func(baseURL string) app.API { return client.New(baseURL) }
	newTUIModel   = func(api app.API) tui.Model { return tui.New(api) }
	newTeaProgram = tea.NewProgram
	runTeaProgram = (*tea.Program).Run
	logToFile     = tea.LogToFile
	exitFunc      = os.Exit
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fatal(err)
	}
}

func execute(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "taskboard: %s\n", err)
	exitFunc(1)
}
