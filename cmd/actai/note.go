package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"actai-dashboard/internal/adapter/notes"
)

func (c *cli) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Local notes on projects, milestones and tasks",
	}
	get := &cobra.Command{
		Use:   "get <project|milestone|task> <id>",
		Short: "Print the note attached to an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := noteKey(args[0], args[1])
			if err != nil {
				return err
			}
			text, err := c.app.Notes.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	set := &cobra.Command{
		Use:   "set <project|milestone|task> <id> <text...>",
		Short: "Attach a note to an entity; empty text removes it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := noteKey(args[0], args[1])
			if err != nil {
				return err
			}
			return c.app.Notes.Set(cmd.Context(), key, strings.Join(args[2:], " "))
		},
	}
	cmd.AddCommand(get, set)
	return cmd
}

func noteKey(entity, rawID string) (string, error) {
	if !notes.ValidEntity(entity) {
		return "", fmt.Errorf("unknown entity %q, expected one of %s", entity, strings.Join(notes.Entities, ", "))
	}
	id, err := parseID(rawID)
	if err != nil {
		return "", err
	}
	return notes.Key(entity, id), nil
}
