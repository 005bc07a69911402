package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/govdbot/govfuni/core"
	"github.com/govdbot/govfuni/models"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagJSON    bool
	flagFormat  string
	flagTimeout time.Duration
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "List the formats of an episode, best last",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveRun,
}

func init() {
	resolveCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output media as JSON")
	resolveCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Only output the format with this id")
	resolveCmd.Flags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "Extraction timeout")
}

func resolveRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	mediaList, err := core.Extract(ctx, args[0])
	if err != nil {
		return errors.New(core.ErrorMessage(err))
	}
	if flagFormat != "" {
		if err := selectFormat(mediaList, flagFormat); err != nil {
			return err
		}
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), mediaList)
	}
	for _, media := range mediaList {
		writeMedia(cmd.OutOrStdout(), media)
	}
	return nil
}

// selectFormat keeps only the format with id formatID in every
// media that has it.
func selectFormat(mediaList []*models.Media, formatID string) error {
	var found bool
	for _, media := range mediaList {
		if format := media.GetFormat(formatID); format != nil {
			media.Formats = []*models.MediaFormat{format}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("format %s not found", formatID)
	}
	return nil
}

func writeJSON(w io.Writer, mediaList []*models.Media) error {
	data, err := sonic.ConfigStd.MarshalIndent(mediaList, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding media: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeMedia(w io.Writer, media *models.Media) {
	fmt.Fprintf(w, "%s (%s)\n", media.Title.String, media.ContentID)
	if media.Description.String != "" {
		fmt.Fprintln(w, media.Description.String)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEXT\tPROTO\tLANG\tQUALITY\tBITRATE\tURL")
	for _, format := range media.Formats {
		fmt.Fprintf(
			tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			format.FormatID,
			format.Container,
			format.Protocol,
			orDash(string(format.Language)),
			format.QualityLabel(),
			formatBitrate(format),
			format.URL,
		)
	}
	tw.Flush()
}

func formatBitrate(format *models.MediaFormat) string {
	if !format.Bitrate.Valid {
		return "-"
	}
	return humanize.SIWithDigits(float64(format.Bitrate.Int64)*1000, 1, "bps")
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
