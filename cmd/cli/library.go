package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/ChordSheets/pkg/logger"
	"github.com/himanishpuri/ChordSheets/pkg/utils"
)

var (
	sheetTitle  string
	sheetArtist string
	sheetSteps  int
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the stored sheet library",
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a Markdown sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryAdd,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sheets",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

var libraryTransposeCmd = &cobra.Command{
	Use:   "transpose <id>",
	Short: "Transpose a stored sheet in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryTranspose,
}

var libraryExportCmd = &cobra.Command{
	Use:   "export <file.json.xz>",
	Short: "Export the library as xz-compressed JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryExport,
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file.json.xz>",
	Short: "Import sheets from an export",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryImport,
}

func init() {
	libraryAddCmd.Flags().StringVar(&sheetTitle, "title", "", "Song title (defaults to the file name)")
	libraryAddCmd.Flags().StringVar(&sheetArtist, "artist", "", "Artist name")
	libraryTransposeCmd.Flags().IntVarP(&sheetSteps, "steps", "n", 1, "Signed number of semitones")

	libraryCmd.AddCommand(libraryAddCmd, libraryListCmd, libraryShowCmd, libraryDeleteCmd,
		libraryTransposeCmd, libraryExportCmd, libraryImportCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	title := sheetTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	id, err := svc.AddSheet(ctx, title, sheetArtist, string(data))
	if err != nil {
		return err
	}
	chords := len(svc.TokenizeDocument(string(data)))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%d chords, %s)\n  ID: %s\n",
		title, chords, humanize.Bytes(uint64(len(data))), id)
	return nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sheets, err := svc.ListSheets(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sheets) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No sheets in library"))
		return nil
	}

	fmt.Fprintf(out, "%s\n\n", headerStyle.Render(fmt.Sprintf("%d sheet(s)", len(sheets))))
	for i, s := range sheets {
		artist := s.Artist
		if artist == "" {
			artist = "unknown artist"
		}
		fmt.Fprintf(out, "%d. %q by %s\n", i+1, s.Title, artist)
		fmt.Fprintf(out, "   %s\n", mutedStyle.Render(fmt.Sprintf("ID: %s | %+d semitones | %s | updated %s",
			s.ID, s.Semitones, humanize.Bytes(uint64(len(s.Body))), humanize.Time(s.UpdatedAt))))
	}
	logger.Debugf("Listed %d sheets", len(sheets))
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := svc.GetSheet(ctx, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s - %s (%+d)", s.Title, s.Artist, s.Semitones)))
	fmt.Fprintln(out, mutedStyle.Render("blake3 "+s.ContentHash))
	fmt.Fprintln(out)
	fmt.Fprint(out, highlight(s.Body, svc.TokenizeDocument(s.Body), renderChord))
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := svc.GetSheet(ctx, args[0])
	if err != nil {
		return err
	}
	if err := svc.DeleteSheet(ctx, s.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q by %s\n", s.Title, s.Artist)
	return nil
}

func runLibraryTranspose(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := svc.TransposeSheet(ctx, args[0], sheetSteps)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%q is now %+d semitones from the original\n", s.Title, s.Semitones)
	return nil
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	f, err := os.CreateTemp(filepath.Dir(args[0]), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	n, err := svc.ExportSheets(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := utils.MoveFile(f.Name(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sheet(s) to %s\n", n, args[0])
	return nil
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	svc := mustService()
	defer svc.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	n, err := svc.ImportSheets(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sheet(s)\n", n)
	return nil
}
