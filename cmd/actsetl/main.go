package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/akn"
	"github.com/coolbeans/actsetl/pkg/eisb"
	"github.com/coolbeans/actsetl/pkg/transform"
	"github.com/coolbeans/actsetl/pkg/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "actsetl",
		Short: "Irish statute XML to Akoma Ntoso converter",
		Long: `Actsetl converts Acts of the Oireachtas published on the
electronic Irish Statute Book into Akoma Ntoso / LegalDocML XML.

It reconstructs the provision hierarchy from the flat source layout,
recognises textual amendments and records them as activeModifications,
and emits a schema-shaped document with FRBR metadata.`,
		Version: version,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func convertCmd() *cobra.Command {
	var (
		notesPath  string
		keepStyles bool
		workers    int
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "convert <input.xml> <output.xml>",
		Short: "Convert one eISB act file to Akoma Ntoso",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer log.Sync()
			return convertFile(args[0], args[1], notesPath, keepStyles, workers, log)
		},
	}
	cmd.Flags().StringVar(&notesPath, "notes", "", "path to editorial notes YAML file")
	cmd.Flags().BoolVar(&keepStyles, "keep-styles", false, "retain style attributes in the output")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of sections to parse concurrently")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		outDir  string
		workers int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "watch <input-dir>",
		Short: "Convert act files as they arrive in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer log.Sync()
			if outDir == "" {
				outDir = args[0]
			}

			w, err := watch.New(args[0], outDir, func(in, out string) error {
				return convertFile(in, out, "", false, workers, log)
			}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: input directory)")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of sections to parse concurrently")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}

// convertFile runs the full pipeline for one act: entity normalization,
// metadata and skeleton, body and schedules, heading repair, table of
// contents, amendment analysis, notes, and serialization.
func convertFile(inPath, outPath, notesPath string, keepStyles bool, workers int, log *zap.Logger) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(transform.Normalize(raw)); err != nil {
		return fmt.Errorf("parsing %s: %w", inPath, err)
	}
	eisbAct := doc.Root()
	if eisbAct == nil {
		return fmt.Errorf("parsing %s: document has no root element", inPath)
	}

	parser := eisb.NewParser(eisb.WithLogger(log), eisb.WithWorkers(workers))

	meta, err := parser.ActMetadata(eisbAct)
	if err != nil {
		return err
	}
	act := akn.Skeleton(meta)

	eisbBody := eisbAct.SelectElement("body")
	if eisbBody == nil {
		return fmt.Errorf("act %s/%s has no body element", meta.Number, meta.Year)
	}
	mods, err := parser.ParseBody(eisbBody, act.SelectElement("body"))
	if err != nil {
		return err
	}
	parser.ParseSchedules(eisbAct, act.SelectElement("body"))
	eisb.FixHeadings(act)
	eisb.GenerateTOC(act)

	if active := act.FindElement("./meta/analysis/activeModifications"); active != nil {
		analysis := active.Parent()
		analysis.RemoveChild(active)
		analysis.AddChild(akn.BuildActiveModifications(mods))
	}

	root := akn.Root(act)

	if notesPath != "" {
		notes, err := akn.LoadNotes(notesPath)
		if err != nil {
			return err
		}
		akn.AttachNotes(root, notes)
	}
	if !keepStyles {
		akn.PopStyles(root)
	}

	if err := akn.Write(root, outPath); err != nil {
		return err
	}
	log.Info("wrote act", zap.String("path", outPath), zap.Int("modifications", len(mods)))
	return nil
}
