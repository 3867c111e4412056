package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docmesh-go/internal/cli/connection"
	"github.com/yndnr/docmesh-go/internal/cli/output"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "docmesh-cli",
		Usage:   "DocMesh command-line management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			DocumentCommand(),
			TailCommand(),
			SystemCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "DocMesh server address (e.g., localhost:5180)",
			EnvVars: []string{"DOCMESH_SERVER"},
			Value:   "127.0.0.1:5180",
		},
		&cli.StringFlag{
			Name:    "socket",
			Usage:   "Path to the server's local management socket",
			EnvVars: []string{"DOCMESH_SOCKET"},
			Value:   "/var/run/docmesh-server/docmesh-server.sock",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
	}
}

// newHTTPClient builds an HTTP client from the global flags.
func newHTTPClient(c *cli.Context) *connection.HTTPClient {
	return connection.NewHTTPClient(c.String("server"))
}

// newSocketClient builds a socket client from the global flags.
func newSocketClient(c *cli.Context) *connection.SocketClient {
	return connection.NewSocketClient(c.String("socket"))
}

// formatter returns the output formatter selected by --output.
func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}

// confirm asks the user for a yes/no confirmation on stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
