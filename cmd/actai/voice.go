package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/usecase"
)

func (c *cli) voicePlanCmd() *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "voice-plan <audio-file>",
		Short: "Transcribe a recorded objective and generate a plan from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			text, p, err := c.app.Voice.PlanFromAudio(cmd.Context(), filepath.Base(args[0]), f, weeks)
			if text != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "heard: %s\n", text)
			}
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				return writePlans(w, []domain.Project{p})
			})
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "w", usecase.DefaultPlanWeeks, "plan duration in weeks")
	return cmd
}

func (c *cli) speakCmd() *cobra.Command {
	var gender, out string
	cmd := &cobra.Command{
		Use:   "speak <text...>",
		Short: "Synthesize speech and write the audio to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := c.app.Voice.Speak(cmd.Context(), strings.Join(args, " "), gender)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(audio)
				return err
			}
			if err := os.WriteFile(out, audio, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(audio), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&gender, "voice", "g", "female", "female or male")
	cmd.Flags().StringVarP(&out, "out", "o", "speech.mp3", "output file, - for stdout")
	return cmd
}
