package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-print the chords of a sheet whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before re-reading the file")
	watchCmd.Flags().BoolVar(&plainText, "plain", false, "Treat the whole file as one chord block")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	svc := mustService()
	defer svc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, svc, path, cmd.OutOrStdout())
}

// watchFile prints a chord summary of path now and after every change until
// ctx is done. The parent directory is watched so editors that replace the
// file on save keep being tracked.
func watchFile(ctx context.Context, svc chordsheets.Service, path string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	printSummary(svc, path, out)

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(watchDebounce)
			}
			if event.Op&fsnotify.Remove != 0 {
				logger.Warnf("%s was removed", path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("Watcher error: %v", err)
		case <-debounce.C:
			printSummary(svc, path, out)
		}
	}
}

func printSummary(svc chordsheets.Service, path string, out io.Writer) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("Reading %s: %v", path, err)
		return
	}
	text := string(data)
	toks := documentTokens(svc, text, plainText)

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s  %s", filepath.Base(path), time.Now().Format("15:04:05"))))
	if len(toks) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  no chords"))
		return
	}

	seen := make(map[string]bool)
	var distinct []string
	for _, tok := range toks {
		if !seen[tok.Value] {
			seen[tok.Value] = true
			distinct = append(distinct, tok.Value)
		}
	}
	fmt.Fprintf(out, "  %d chords, %d distinct:", len(toks), len(distinct))
	for _, v := range distinct {
		fmt.Fprint(out, " ", renderChord(v))
	}
	fmt.Fprintln(out)
}
