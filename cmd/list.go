package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimsdash/internal/chunks"
	"github.com/theirongolddev/claimsdash/internal/cli"
	"github.com/theirongolddev/claimsdash/internal/pipeline"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of claims",
	RunE:  runList,
}

var (
	listStart    int
	listLimit    int
	listStatuses []string
	listSort     string
	listSearch   string
)

func init() {
	listCmd.Flags().IntVar(&listStart, "start", 0, "Offset of the first claim")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 50, "Number of claims to fetch")
	listCmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Only show these statuses (repeatable)")
	listCmd.Flags().StringVar(&listSort, "sort", string(pipeline.DefaultSort), "Sort order, e.g. amount-highest or holder-asc")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by claim number, holder, or policy number")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	opt := pipeline.SortOption(listSort)
	if !opt.Valid() {
		return fmt.Errorf("unknown sort %q", listSort)
	}
	if listStart < 0 || listLimit <= 0 {
		return errors.New("--start must be >= 0 and --limit > 0")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching claims from %s...\n", s.client.BaseURL())
	}

	loader := chunks.NewLoader(chunks.ListerFetcher{Lister: s.client}, s.log.Named("loader"))
	page := loader.LoadChunkForRange(context.Background(), listStart, listLimit)
	if err := loader.ChunkErr(); err != nil {
		return fmt.Errorf("loading claims: %w", err)
	}

	view := pipeline.View{Statuses: listStatuses, Sort: opt, Query: listSearch}
	claims := pipeline.Apply(page, view)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CLAIMS  %s–%s (showing %d)",
		cli.FormatNumber(int64(listStart+1)),
		cli.FormatNumber(int64(listStart+len(page))),
		len(claims))))
	fmt.Println()

	if len(claims) == 0 {
		fmt.Println(cli.RenderMuted("  No claims found."))
		return nil
	}

	rows := make([][]string, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, []string{
			c.Number,
			c.Status,
			cli.Truncate(c.Holder, 24),
			c.PolicyNumber,
			c.FormattedClaimAmount,
			c.FormattedProcessingFee,
			c.FormattedTotalAmount,
			c.FormattedIncidentDate,
			c.FormattedCreatedDate,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   opt.Label(),
		Headers: []string{"Claim #", "Status", "Holder", "Policy #", "Amount", "Fee", "Total", "Incident", "Created"},
		Rows:    rows,
		Right:   []bool{false, false, false, false, true, true, true, false, false},
	}))

	if len(page) == listLimit && !flagQuiet {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  More claims may follow: --start %d", listStart+len(page))))
	}
	return nil
}
