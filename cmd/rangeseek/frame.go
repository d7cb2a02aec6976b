package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/rangeseek"
	"github.com/teranos/rangeseek/internal/session"
)

func frameCmd(opts *options) *cobra.Command {
	var (
		lesser  int
		larger  int
		columns int
		out     string
	)

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Render the slider to a PNG",
		Long: `Render the slider to a PNG as it would appear in a terminal of the given
width. Steps default to the saved range when RANGESEEK_STATE_FILE is set,
and to the full range otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderFrame(cmd, opts, frameOptions{
				lesser:     lesser,
				larger:     larger,
				lesserSet:  cmd.Flags().Changed("lesser"),
				largerSet:  cmd.Flags().Changed("larger"),
				columns:    columns,
				outputPath: out,
			})
		},
	}

	cmd.Flags().IntVar(&lesser, "lesser", 0, "Lesser handle step")
	cmd.Flags().IntVar(&larger, "larger", 0, "Larger handle step")
	cmd.Flags().IntVar(&columns, "columns", 80, "Terminal width in cells")
	cmd.Flags().StringVarP(&out, "output", "o", "rangeseek.png", "PNG file to write")

	return cmd
}

type frameOptions struct {
	lesser     int
	larger     int
	lesserSet  bool
	largerSet  bool
	columns    int
	outputPath string
}

func renderFrame(cmd *cobra.Command, opts *options, fo frameOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	length := fo.columns - 2*cfg.Margin - 1
	if length < 0 {
		return fmt.Errorf("%d columns leave no room for the track", fo.columns)
	}
	track := rangeseek.Track{Start: float64(cfg.Margin), Length: float64(length)}

	ctrl, err := rangeseek.NewController(cfg.ControllerConfig(track, logger))
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}

	if cfg.StateFile != "" {
		if _, err := session.NewStore(cfg.StateFile).Restore(ctrl); err != nil {
			return fmt.Errorf("restore range: %w", err)
		}
	}

	state := ctrl.SaveState()
	if fo.lesserSet {
		state.LesserStep = fo.lesser
	}
	if fo.largerSet {
		state.LargerStep = fo.larger
	}
	if err := ctrl.RestoreState(state); err != nil {
		return err
	}

	renderConfig := rangeseek.DefaultRenderConfig("")
	renderConfig.Columns = fo.columns
	stage, err := rangeseek.NewRenderingStage(renderConfig)
	if err != nil {
		return err
	}
	if err := stage.CaptureFrame(ctrl.Frame(), fo.outputPath); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	logger.WithField("path", fo.outputPath).Debug("frame written")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), fo.outputPath)
	return err
}
