package command

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

// SystemCommand returns the system subcommand group. All subcommands
// go through the local Unix socket.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Local server management (requires socket access)",
		Subcommands: []*cli.Command{
			{
				Name:   "ping",
				Usage:  "Check that the server process is responsive",
				Action: systemPing,
			},
			{
				Name:   "status",
				Usage:  "Show server status",
				Action: systemStatus,
			},
			{
				Name:   "flush",
				Usage:  "Force all pending document saves to disk",
				Action: systemFlush,
			},
			{
				Name:      "loglevel",
				Usage:     "Get or set the server log level",
				ArgsUsage: "[debug|info|warn|error]",
				Action:    systemLogLevel,
			},
		},
	}
}

func systemPing(c *cli.Context) error {
	reply, err := socketExec(c, "ping")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func systemStatus(c *cli.Context) error {
	reply, err := socketExec(c, "status")
	if err != nil {
		return err
	}

	// The server replies with a single JSON line; pretty-print it
	// unless the raw form was asked for.
	if c.String("output") == "json" {
		fmt.Fprintln(c.App.Writer, reply)
		return nil
	}

	var status map[string]any
	if err := json.Unmarshal([]byte(reply), &status); err != nil {
		fmt.Fprintln(c.App.Writer, reply)
		return nil
	}
	for _, key := range sortedKeys(status) {
		fmt.Fprintf(c.App.Writer, "%-16s %v\n", key, status[key])
	}
	return nil
}

func systemFlush(c *cli.Context) error {
	reply, err := socketExec(c, "flush")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func systemLogLevel(c *cli.Context) error {
	cmd := "loglevel"
	if level := c.Args().First(); level != "" {
		cmd += " " + level
	}

	reply, err := socketExec(c, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func socketExec(c *cli.Context, cmd string) (string, error) {
	client := newSocketClient(c)
	defer client.Close()

	reply, err := client.Execute(cmd)
	if err != nil {
		return "", fmt.Errorf("is the server running? %w", err)
	}
	return reply, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
