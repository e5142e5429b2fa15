package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

var trashCmd = &cobra.Command{
	Use:   "trash <sha1>...",
	Short: "Move library items to the trash by content hash",
	Long: `Move remote media to the trash. Items are addressed by the SHA-1 of
their file content, given as 40 hex characters or base64.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dedupKeys := make([]string, 0, len(args))
		for _, arg := range args {
			fp, err := model.ParseFingerprint(arg)
			if err != nil {
				return fmt.Errorf("invalid hash %q: %w", arg, err)
			}
			dedupKeys = append(dedupKeys, fp.DedupKey())
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.MoveToTrash(cmd.Context(), dedupKeys); err != nil {
			return err
		}
		fmt.Printf("Moved %d item(s) to trash\n", len(dedupKeys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trashCmd)
}
