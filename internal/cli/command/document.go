package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docmesh-go/internal/cli/connection"
	"github.com/yndnr/docmesh-go/internal/cli/output"
)

const requestTimeout = 30 * time.Second

// DocumentCommand returns the document subcommand group.
func DocumentCommand() *cli.Command {
	return &cli.Command{
		Name:    "document",
		Aliases: []string{"doc"},
		Usage:   "Manage documents",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List document IDs",
				Action: documentList,
			},
			{
				Name:      "get",
				Usage:     "Get a document and its content",
				ArgsUsage: "DOCUMENT_ID",
				Action:    documentGet,
			},
			{
				Name:      "create",
				Usage:     "Create an empty document",
				ArgsUsage: "DOCUMENT_ID",
				Action:    documentCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document",
				ArgsUsage: "DOCUMENT_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: documentDelete,
			},
		},
	}
}

func documentList(c *cli.Context) error {
	client := newHTTPClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, "/api/documents")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		IDs   []string `json:"ids"`
		Total int      `json:"total"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	table := output.NewTable("ID")
	for _, id := range result.IDs {
		table.AddRow(id)
	}
	return formatter(c).Format(c.App.Writer, table)
}

func documentGet(c *cli.Context) error {
	docID := c.Args().First()
	if docID == "" {
		return errors.New("document ID is required")
	}

	client := newHTTPClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, "/api/documents/"+docID)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var doc struct {
		ID        string `json:"id"`
		Content   string `json:"content"`
		UpdatedAt int64  `json:"updated_at"`
	}
	if err := connection.ParseResponse(resp, &doc); err != nil {
		return err
	}

	table := output.NewTable("ID", "UPDATED", "BYTES")
	table.AddRow(doc.ID, formatMillis(doc.UpdatedAt), len(doc.Content))
	if err := formatter(c).Format(c.App.Writer, table); err != nil {
		return err
	}

	// Content goes below the summary so it stays copy-pasteable.
	if doc.Content != "" {
		fmt.Fprintln(c.App.Writer)
		fmt.Fprintln(c.App.Writer, doc.Content)
	}
	return nil
}

func documentCreate(c *cli.Context) error {
	docID := c.Args().First()
	if docID == "" {
		return errors.New("document ID is required")
	}

	client := newHTTPClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Post(ctx, "/api/documents", map[string]string{"id": docID})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "document %q created\n", docID)
	return nil
}

func documentDelete(c *cli.Context) error {
	docID := c.Args().First()
	if docID == "" {
		return errors.New("document ID is required")
	}

	if !c.Bool("force") && !confirm(fmt.Sprintf("delete document %q?", docID)) {
		fmt.Fprintln(c.App.Writer, "aborted")
		return nil
	}

	client := newHTTPClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Delete(ctx, "/api/documents/"+docID)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "document %q deleted\n", docID)
	return nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
