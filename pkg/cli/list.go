package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daFish/functional-test-helpers/pkg/cli/internal/output"
	"github.com/daFish/functional-test-helpers/pkg/httpmock"
)

// PatternOutput is the JSON form of one pattern in `fth list`.
type PatternOutput struct {
	Name      string   `json:"name,omitempty"`
	Matcher   string   `json:"matcher"`
	Responses []string `json:"responses"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		patterns string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Validate pattern fixtures and list their patterns",
		Example: `  fth list --patterns 'fixtures/**/*.yaml'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := httpmock.LoadPatternsGlob(patterns)
			if err != nil {
				return err
			}
			a.log.Debug("patterns loaded", "patterns", len(loaded))

			out := make([]PatternOutput, len(loaded))
			for i, p := range loaded {
				m := p.Matcher()
				out[i] = PatternOutput{Name: p.Label(), Matcher: m.String()}
				for _, r := range p.Responses() {
					out[i].Responses = append(out[i].Responses, r.String())
				}
			}
			if asJSON {
				return output.JSON(a.stdout, out)
			}

			tw := output.Table(a.stdout)
			fmt.Fprintln(tw, "NAME\tMATCHER\tRESPONSES")
			for _, p := range out {
				name := p.Name
				if name == "" {
					name = "-"
				}
				responses := strings.Join(p.Responses, ", ")
				if responses == "" {
					responses = "200 (empty)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, p.Matcher, responses)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&patterns, "patterns", "p", "", "Pattern fixture file or glob (supports **)")
	cmd.Flags().BoolVar(&asJSON, "output-json", false, "Print the patterns as JSON")
	_ = cmd.MarkFlagRequired("patterns")
	return cmd
}
