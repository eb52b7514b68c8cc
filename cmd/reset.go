package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/gainbrain/internal/config"
	"github.com/abhisek/gainbrain/internal/quiz"
	"github.com/abhisek/gainbrain/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <user>",
	Short: "Clear a user's topic, pending question and answer history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repo, closeAll, err := openForUser(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		if err := quiz.Reset(ctx, repo, args[0]); err != nil {
			return fmt.Errorf("reset %s: %w", args[0], err)
		}
		fmt.Printf("Reset %s.\n", args[0])
		return nil
	},
}

// openForUser opens the SQLite store and the quiz repo the bot would use.
func openForUser(ctx context.Context, cmd *cobra.Command) (store.QuizRepo, func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	repo, closeRepo, err := openQuizRepo(ctx, config.Load(), st)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return repo, func() {
		closeRepo()
		st.Close()
	}, nil
}
