package cmd

import (
	"errors"
	"fmt"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/database"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the media cache holds",
	Args:  cobra.NoArgs,
	RunE:  statsRun,
}

func statsRun(cmd *cobra.Command, args []string) error {
	if !config.Env.Caching || database.DB == nil {
		return errors.New("caching is not enabled, set CACHING=true")
	}
	media, err := database.GetMediaCount()
	if err != nil {
		return fmt.Errorf("counting media: %w", err)
	}
	formats, err := database.GetFormatsCount()
	if err != nil {
		return fmt.Errorf("counting formats: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "media: %s\nformats: %s\n",
		humanize.Comma(media),
		humanize.Comma(formats),
	)
	return nil
}
