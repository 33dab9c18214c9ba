package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/claimform"
	"github.com/theirongolddev/claimsdash/internal/cli"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "File a new claim",
	Long: "File a new claim. The processing fee defaults to 5% of the amount, and the\n" +
		"policy holder is looked up from the policy number when omitted.",
	RunE: runCreate,
}

var createValues = map[string]*string{}

func init() {
	flags := []struct{ field, name, usage string }{
		{claimform.Amount, "amount", "Claim amount in dollars"},
		{claimform.ProcessingFee, "fee", "Processing fee in dollars"},
		{claimform.Holder, "holder", "Policy holder name"},
		{claimform.PolicyNumber, "policy", "Policy number (TL-XXXXX)"},
		{claimform.InsuredName, "insured", "Insured item"},
		{claimform.IncidentDate, "incident-date", "Incident date (YYYY-MM-DD)"},
		{claimform.Description, "description", "What happened"},
	}
	for _, f := range flags {
		createValues[f.field] = createCmd.Flags().String(f.name, "", f.usage)
	}
	rootCmd.AddCommand(createCmd)
}

func runCreate(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	form := claimform.New(time.Now)
	for _, f := range claimform.Fields {
		form.Set(f.Name, *createValues[f.Name])
	}

	ctx := context.Background()
	number := form.Value(claimform.PolicyNumber)
	if form.Value(claimform.Holder) == "" && claimform.ValidPolicyNumber(number) {
		p, err := s.client.LookupPolicy(ctx, number)
		if err != nil {
			s.log.Warn("policy lookup failed", zap.String("policy", number), zap.Error(err))
		} else if form.ApplyPolicy(number, p) && !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Policy holder: %s (from policy %s)\n", p.Holder, number)
		}
	}

	form.SuggestFee()
	req, ok := form.BeginSubmit()
	if !ok {
		errs := form.Errors()
		fmt.Println()
		for _, f := range claimform.Fields {
			if msg, bad := errs[f.Name]; bad {
				fmt.Println(cli.RenderError(fmt.Sprintf("  %-16s %s", f.Label, msg)))
			}
		}
		return errors.New("claim is invalid")
	}

	c, err := s.client.CreateClaim(ctx, req)
	form.EndSubmit(err)
	if err != nil {
		return fmt.Errorf("creating claim: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Claim %s created successfully\n", c.Number)
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  Amount %s · Fee %s · Total %s",
		cli.FormatUSD(req.Amount),
		cli.FormatUSD(req.ProcessingFee),
		cli.FormatUSD(req.Amount+req.ProcessingFee))))
	return nil
}
