package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

func newPatchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "patch input.docx replacements.json",
		Short: "Apply index-addressed replacements to a document",
		Long: `Applies a replacements JSON file ({"0": "new text", ...}, keys are
paragraph indices) to a document and writes the patched copy. Indices that
do not resolve are skipped with a warning.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup()
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

			replacementsJSON, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			var keyed map[string]string
			if err := json.Unmarshal(replacementsJSON, &keyed); err != nil {
				return fmt.Errorf("invalid replacements file: %w", err)
			}
			replacements := make(map[int]string, len(keyed))
			for key, text := range keyed {
				index, err := strconv.Atoi(key)
				if err != nil {
					return fmt.Errorf("replacement key %q is not a paragraph index", key)
				}
				replacements[index] = text
			}

			doc, err := docx.Open(raw)
			if err != nil {
				return err
			}

			patched, skipped, err := doc.Patch(replacements)
			if err != nil {
				return err
			}
			for _, s := range skipped {
				log.Warn("skipped unresolvable edit",
					zap.Int("index", s.Index),
					zap.String("reason", s.Reason))
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], ".docx") + "_enhanced.docx"
			}
			if err := os.WriteFile(output, patched, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			log.Info("patched document written",
				zap.String("output", output),
				zap.Int("applied", len(replacements)-len(skipped)),
				zap.Int("skipped", len(skipped)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input_enhanced.docx)")
	return cmd
}
