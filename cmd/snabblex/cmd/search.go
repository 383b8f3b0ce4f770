package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadir/snabblex/internal/domain/search"
)

var (
	searchMode  string
	searchType  string
	searchTopic string
	searchSort  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the dictionary",
	Long: `Search both languages at once. Results are ranked exact match first,
then prefix matches, then partial matches. A sparse result set falls back to
near-miss spelling matches. An empty query with a type or topic filter browses
the whole corpus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "all", "match mode: all, prefix, suffix, exact, definition, training")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "keep only one grammatical category (en, ett, verb, adjective, ...)")
	searchCmd.Flags().StringVar(&searchTopic, "topic", "", "keep only entries tagged with a topic")
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", "relevance", "ordering: relevance, alpha_asc, alpha_desc")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 25, "maximum results to print (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Load(cmd.Context()); err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	results, err := eng.Search(search.Options{
		Query: query,
		Mode:  search.Mode(searchMode),
		Type:  searchType,
		Topic: searchTopic,
		Sort:  search.Sort(searchSort),
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("inga träffar")
		return nil
	}

	shown := len(results)
	if searchLimit > 0 && shown > searchLimit {
		shown = searchLimit
	}
	for _, e := range results[:shown] {
		fmt.Println(formatEntryLine(e))
	}
	if shown < len(results) {
		fmt.Printf("... %d fler träffar (höj --limit)\n", len(results)-shown)
	}
	return nil
}
