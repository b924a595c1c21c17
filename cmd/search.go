package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/output"
)

var searchFormat string

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search stored profiles with a free-text query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchFormat, "output", "o", output.FormatTable, "output format: table or json")
}

func runSearch(ctx context.Context, query string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(config.Store, logger)
	if err != nil {
		return fmt.Errorf("opening the profile store: %w", err)
	}
	defer st.Close()

	ranking, err := newSearchService(ctx, config, st, logger).Search(ctx, query)
	if err != nil {
		return err
	}

	logger.Debug("search finished",
		zap.String("query", query),
		zap.String("ranked_by", string(ranking.RankedBy)),
		zap.Int("matches", len(ranking.Matches)),
	)

	return output.Write(os.Stdout, searchFormat, ranking)
}
