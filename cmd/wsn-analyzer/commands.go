package main

import (
	"WSNSpectra/internal/config"
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "wsn-analyzer",
		Short:         "Aggregate, merge and classify WSN simulation packet traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "count",
			Short: "Count DAO/DIO/sensing packets per sensor for every run",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := runCount(cmd.Context(), cfg)
				return err
			},
		},
		&cobra.Command{
			Use:   "plot",
			Short: "Render bar charts from the saved per-run counts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPlot(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "merge",
			Short: "Merge the per-run counts and normalize every row by its maximum",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMerge(cfg)
			},
		},
		&cobra.Command{
			Use:   "classify",
			Short: "Train on the training table and label the test table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runClassify(cfg)
			},
		},
		&cobra.Command{
			Use:   "confusion",
			Short: "Compare predicted and actual labels and render the confusion matrix",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfusion(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Count every run, then merge and normalize",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := runCount(cmd.Context(), cfg); err != nil {
					return err
				}
				return runMerge(cfg)
			},
		},
	)
	return root
}
