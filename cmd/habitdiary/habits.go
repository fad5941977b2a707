package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func addHabitCommands(topLevel *cobra.Command, ro *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "habits",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ro.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			habits, err := st.Habits(context.Background())
			if err != nil {
				return err
			}
			printHabits(cmd.OutOrStdout(), habits)
			return nil
		},
	})

	habit := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}

	var colorIndex int
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Register a habit so it gets its own diary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ro.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			h, err := st.AddHabit(context.Background(), args[0], colorIndex)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit added: %s\n", h.Title)
			return nil
		},
	}
	add.Flags().IntVar(&colorIndex, "color", 0, "accent color index")
	habit.AddCommand(add)
	topLevel.AddCommand(habit)
}
