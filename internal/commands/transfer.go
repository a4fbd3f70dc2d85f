package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/phrazzld/lumina/internal/workbook"
	"github.com/spf13/cobra"
)

// Export formats.
const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

// resolveFormat returns the explicit format, or the one implied by the
// file extension, defaulting to JSON.
func resolveFormat(explicit, path string) (string, error) {
	switch f := strings.ToLower(explicit); f {
	case formatJSON, formatXLSX:
		return f, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q, want json or xlsx", explicit)
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return formatXLSX, nil
	}
	return formatJSON, nil
}

func encodeSnapshot(format string, snap domain.Snapshot) ([]byte, error) {
	if format == formatXLSX {
		var buf bytes.Buffer
		if err := workbook.Write(&buf, snap); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func addExport(topLevel *cobra.Command, o *rootOptions) {
	var format string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole knowledge base to a file or stdout.",
		Long: "Write the whole knowledge base as JSON or as an .xlsx workbook with the sheets\n" +
			"Words, KnowledgePoints, Categories and Tasks. The format follows the file\n" +
			"extension unless --format is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				data, err := encodeSnapshot(f, st.Snapshot())
				if err != nil {
					return err
				}
				if path == "" {
					_, err = s.out.Write(data)
					return err
				}
				if err := os.WriteFile(path, data, 0o600); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(s.out, "exported to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or xlsx.")
	topLevel.AddCommand(cmd)
}

// readSnapshot parses an export file. "-" reads stdin.
func readSnapshot(cmd *cobra.Command, path, format string) (domain.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), blob.MaxDocumentBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read import: %w", err)
	}

	if format == formatXLSX {
		return workbook.Read(bytes.NewReader(data), time.Now())
	}
	if _, err := blob.ParseDocument(data); err != nil {
		return domain.Snapshot{}, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", blob.ErrInvalidDocument, err)
	}
	return snap, nil
}

func addImport(topLevel *cobra.Command, o *rootOptions) {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole knowledge base with an export file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, args[0])
			if err != nil {
				return err
			}
			snap, err := readSnapshot(cmd, args[0], f)
			if err != nil {
				return err
			}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if err := st.ImportAll(cmd.Context(), snap); err != nil {
					return fmt.Errorf("imported locally but save failed: %w", err)
				}
				fmt.Fprintf(s.out, "imported %d words, %d notes, %d categories, %d tasks\n",
					len(snap.Words), len(snap.KnowledgePoints), len(snap.Categories), len(snap.Tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or xlsx.")
	topLevel.AddCommand(cmd)
}
