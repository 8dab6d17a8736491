package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
	"github.com/nuritravel/go-docx-enhancer/internal/section"
)

func newExtractCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "extract input.docx",
		Short: "Print a document's paragraph list (or sections) as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			doc, err := docx.Open(raw)
			if err != nil {
				return err
			}

			var payload any
			switch policy {
			case section.PolicyHeading:
				sections, err := section.ExtractSections(doc.XML, doc.Paragraphs, cfg.Heading)
				if err != nil {
					return err
				}
				payload = sections
			case section.PolicyIndex:
				payload = section.SelectAll(doc.Paragraphs)
			default:
				return fmt.Errorf("unknown policy %q", policy)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", section.PolicyIndex, "selection policy: index or heading")
	return cmd
}
