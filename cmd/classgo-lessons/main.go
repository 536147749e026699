// Command classgo-lessons runs the classifier walkthrough chapters from
// the terminal, one subcommand per chapter.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/classgo/lessons"
	"github.com/YuminosukeSato/classgo/pkg/errors"
	"github.com/YuminosukeSato/classgo/pkg/log"
)

var (
	flagSeed     int64
	flagPlotDir  string
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:   "classgo-lessons",
		Short: "An interactive walkthrough of classifier concepts",
		Long: `classgo-lessons prints the chapters of a classifier tutorial:
classification vs regression, binary vs multiclass problems,
instance-based vs model-based learning, evaluation metrics, class
imbalance, feature scaling and a fixed-rule price classifier.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetupLogger(flagLogLevel)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().Int64Var(&flagSeed, "seed", 42, "random seed for every lesson")
	root.PersistentFlags().StringVar(&flagPlotDir, "plot-dir", "", "directory for rendered charts (empty disables)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug, info, warn, error")

	for _, lesson := range lessons.All() {
		root.AddCommand(lessonCommand(lesson))
	}
	root.AddCommand(allCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func lessonCommand(lesson lessons.Lesson) *cobra.Command {
	return &cobra.Command{
		Use:   lesson.Name,
		Short: lesson.Title,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLesson(cmd.OutOrStdout(), lesson)
		},
	}
}

func allCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every chapter in reading order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, lesson := range lessons.All() {
				if err := runLesson(cmd.OutOrStdout(), lesson); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runLesson(w io.Writer, lesson lessons.Lesson) error {
	opts := lessons.Options{Seed: flagSeed, PlotDir: flagPlotDir}
	if opts.PlotDir != "" {
		if err := os.MkdirAll(opts.PlotDir, 0o755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}

	err := errors.SafeExecute(lesson.Name, func() error {
		return lesson.Run(w, opts)
	})
	if err != nil {
		slog.Error("lesson failed", slog.String("lesson", lesson.Name), log.ErrAttr(err))
		return err
	}
	return nil
}
