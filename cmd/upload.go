package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
	"github.com/xob0t/google-photos-mobile-client/pkg/store"
	"github.com/xob0t/google-photos-mobile-client/pkg/uploader"
)

// AutoAlbumName is the special --album value deriving album names from each
// file's immediate parent directory.
const AutoAlbumName = "AUTO"

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file or directory to Google Photos",
	Long: `Upload a media file, or every media file in a directory, skipping
content that is already present in the library (matched by SHA-1).

Album assignment:
  --album="Vacation 2024"   add everything to one album
  --album=AUTO              derive album names from each file's parent
                            directory; same-named directories at
                            different paths become distinct albums

Examples:
  gpmc upload photo.jpg
  gpmc upload ~/Pictures --recursive --threads=4 --album=AUTO
  gpmc upload ~/Pictures --filter='*.jpg' --glob --ignore-case`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	f := uploadCmd.Flags()
	f.String("album", "", "album name, or AUTO for parent-directory albums")
	f.BoolP("recursive", "r", false, "scan directories recursively")
	f.IntP("threads", "t", model.DefaultWorkers, "number of concurrent upload workers")
	f.Bool("force-upload", false, "upload even if the file is already in the library")
	f.Bool("delete-from-host", false, "delete source files after they are stored remotely")
	f.Bool("use-quota", false, "count uploads against the storage quota")
	f.Bool("saver", false, "upload in storage-saver quality")
	f.Bool("progress", false, "show a progress bar")
	f.Int64("chunk-size", model.DefaultChunkSize, "upload chunk size in bytes")
	f.Int("retries", model.DefaultMaxAttempts, "attempts per network step before giving up")
	f.Bool("no-cache", false, "skip the local media-key cache")

	f.String("filter", "", "filter expression for candidate files")
	f.Bool("exclude", false, "exclude files matching the filter instead of keeping them")
	f.Bool("glob", false, "treat the filter expression as a glob pattern")
	f.Bool("ignore-case", false, "case-insensitive filter matching")
	f.Bool("match-path", false, "match the filter against the full path, not the filename")
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	flagStr := func(name string) string { s, _ := cmd.Flags().GetString(name); return s }
	flagBool := func(name string) bool { b, _ := cmd.Flags().GetBool(name); return b }

	filter := model.FilterConfig{
		Expression: flagStr("filter"),
		Exclude:    flagBool("exclude"),
		IgnoreCase: flagBool("ignore-case"),
		MatchPath:  flagBool("match-path"),
	}
	if flagBool("glob") {
		filter.Kind = model.PatternGlob
	}
	if !filter.Enabled() && (filter.Exclude || filter.IgnoreCase || filter.MatchPath || flagBool("glob")) {
		return fmt.Errorf("--filter is required when using --exclude, --glob, --ignore-case or --match-path")
	}

	files, err := uploader.SelectFiles(args[0], model.SelectorConfig{
		Recursive: flagBool("recursive"),
		Filter:    filter,
	}, logger)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no media files to upload")
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	fmt.Printf("Account: %s\n", client.Email())
	fmt.Printf("Found %d media file(s)\n", len(files))

	config := model.NewUploadConfig()
	config.Workers, _ = cmd.Flags().GetInt("threads")
	config.ChunkSize, _ = cmd.Flags().GetInt64("chunk-size")
	config.MaxAttempts, _ = cmd.Flags().GetInt("retries")
	config.ForceUpload = flagBool("force-upload")
	config.UseQuota = flagBool("use-quota")
	config.DeleteFromHost = flagBool("delete-from-host")
	if flagBool("saver") {
		config.Quality = model.QualitySaver
	}

	directive := model.AlbumDirective{Mode: model.AlbumNone}
	switch album := flagStr("album"); {
	case album == AutoAlbumName:
		directive.Mode = model.AlbumAuto
	case album != "":
		directive = model.AlbumDirective{Mode: model.AlbumFixed, Name: album}
	}

	opts := uploader.Options{Logger: logger}
	if !flagBool("no-cache") {
		cachePath, err := store.DefaultPath(client.Email())
		if err == nil {
			cache, err := store.Open(cachePath)
			if err == nil {
				defer cache.Close()
				opts.Cache = cache
			} else {
				logger.Warn("local cache unavailable, continuing without it", "error", err)
			}
		}
	}
	if flagBool("progress") {
		opts.Observer = newProgressObserver(len(files))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	up := uploader.New(client, config, opts)
	tasks := up.BuildTasks(files, directive)
	report, fatal := up.Run(ctx, tasks)

	printReport(report)

	if fatal != nil {
		return fmt.Errorf("run aborted: %w", fatal)
	}
	done, skipped, failed := report.Counts()
	if done+skipped == 0 && failed > 0 {
		return fmt.Errorf("all %d file(s) failed", failed)
	}
	return nil
}

// printReport writes the per-file summary. Per-file failures do not fail
// the process unless nothing succeeded.
func printReport(report *uploader.RunReport) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	for _, o := range report.Snapshot() {
		switch o.Status {
		case model.UploadStatusDone:
			fmt.Printf("%s %s -> %s\n", green("uploaded"), o.Path, o.MediaKey)
		case model.UploadStatusSkipped:
			fmt.Printf("%s  %s -> %s (already present)\n", yellow("skipped"), o.Path, o.MediaKey)
		case model.UploadStatusFailed:
			fmt.Printf("%s   %s: %v\n", red("failed"), o.Path, o.Err)
		}
		if o.AlbumErr != nil {
			fmt.Printf("         %s: album assignment failed: %v\n", o.Path, o.AlbumErr)
		}
	}

	done, skipped, failed := report.Counts()
	fmt.Printf("\nUploaded: %d  Skipped: %d  Failed: %d\n", done, skipped, failed)
}
