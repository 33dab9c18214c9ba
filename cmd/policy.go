package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimsdash/internal/claimform"
	"github.com/theirongolddev/claimsdash/internal/cli"
)

var policyCmd = &cobra.Command{
	Use:   "policy <number>",
	Short: "Look up a policy by number",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(_ *cobra.Command, args []string) error {
	number := args[0]
	if !claimform.ValidPolicyNumber(number) {
		return fmt.Errorf("policy number must be in format TL-XXXXX, got %q", number)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.client.LookupPolicy(context.Background(), number)
	if err != nil {
		return fmt.Errorf("looking up policy: %w", err)
	}
	if p == nil {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("\n  No policy %s found.", number)))
		return nil
	}

	fmt.Println()
	fmt.Printf("  Policy:  %s\n", p.Number)
	fmt.Printf("  Holder:  %s\n", p.Holder)
	if len(p.ID) > 0 {
		fmt.Printf("  ID:      %s\n", string(p.ID))
	}
	return nil
}
