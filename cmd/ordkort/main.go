package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/tlinquata/ordkort/internal/cli"
	"codeberg.org/tlinquata/ordkort/internal/gui"
	"codeberg.org/tlinquata/ordkort/internal/models"
	"codeberg.org/tlinquata/ordkort/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(args []string, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	// GUI mode, either requested or as the default when no input is given
	if flags.GUIMode || (flags.BatchFile == "" && len(args) == 0) {
		gui.New(flags).Run()
		return nil
	}

	// Ctrl-C cancels the run; finished words are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := processor.NewProcessor(flags, nil)

	var err error
	if flags.BatchFile != "" {
		_, err = proc.RunBatch(ctx)
	} else {
		_, err = proc.RunWords(ctx, args)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nDone! Materials saved to: %s\n", flags.OutputDir)
	return nil
}
