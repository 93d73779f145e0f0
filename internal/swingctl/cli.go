// Package swingctl implements the swingctl command line: local scoring of
// record files, phase validation tools and bulk submission to a server.
package swingctl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/swingiq/internal/config"
	"github.com/okian/swingiq/internal/domain/analysis"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/phase"
)

// Defaults for the submit command.
const (
	defaultServer  = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
	defaultWorkers = 4
)

type rootOptions struct {
	color bool
}

// NewRootCommand builds the swingctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "swingctl",
		Short:         "Score and validate baseball swing records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.color, "color", true, "colorize terminal output")

	root.AddCommand(
		newScoreCommand(opts),
		newValidateCommand(opts),
		newEdgeCasesCommand(opts),
		newCatalogueCommand(opts),
		newProfilesCommand(opts),
		newSubmitCommand(opts),
	)
	return root
}

func (o *rootOptions) renderer(w io.Writer) *Renderer {
	_, tty := w.(*os.File)
	return NewRenderer(w, o.color && tty)
}

// newAnalyzer builds an analyzer from SWING_* configuration so local
// scoring uses the same benchmark overrides as the server.
func newAnalyzer(cmd *cobra.Command, profile string) (*analysis.Analyzer, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	if profile == "" {
		profile = cfg.DefaultProfile
	}
	return analysis.New(analysis.WithTables(tables), analysis.WithDefaultProfile(profile)), nil
}

func newScoreCommand(opts *rootOptions) *cobra.Command {
	var (
		profile string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:     "score <glob>",
		Short:   "Analyze record files locally",
		Example: "  swingctl score 'swings/**/*.yaml'\n  swingctl score session.json --profile Freeman --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := LoadRecords(args[0])
			if err != nil {
				return err
			}
			a, err := newAnalyzer(cmd, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := opts.renderer(out)
			results := make([]model.SwingAnalysis, 0, len(entries))
			for _, e := range entries {
				rec := e.Record
				if err := rec.Validate(); err != nil {
					return fmt.Errorf("%s: %w", e.Origin, err)
				}
				if rec.AnalysisID == "" {
					rec.AnalysisID = e.Origin
				}
				res, err := a.Analyze(rec)
				if err != nil {
					return fmt.Errorf("%s: %w", e.Origin, err)
				}
				if asJSON {
					results = append(results, res)
					continue
				}
				r.Analysis(e.Origin, res)
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "ground-truth profile for records naming none")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print analyses as JSON")
	return cmd
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	var (
		profile string
		markers phase.Markers
		pelvis  float64
	)
	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate phase markers against a ground-truth profile",
		Example: `  swingctl validate --profile Freeman --load 900 --fire 300 --pelvis 150`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAnalyzer(cmd, "")
			if err != nil {
				return err
			}
			p, err := a.Tables().Profile(profile)
			if err != nil {
				return err
			}
			m := markers
			if cmd.Flags().Changed("pelvis") {
				m.PelvisPeak = &pelvis
			}
			rep := a.Validator().Validate(m, p)
			opts.renderer(cmd.OutOrStdout()).Report(rep)
			if !rep.OverallPass {
				return fmt.Errorf("validation against %s failed with %d critical failures", p.Name, rep.CriticalFailures)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "ground-truth profile name")
	cmd.Flags().Float64Var(&markers.LoadStart, "load", 0, "load start, ms before contact")
	cmd.Flags().Float64Var(&markers.FireStart, "fire", 0, "fire start, ms before contact")
	cmd.Flags().Float64Var(&pelvis, "pelvis", 0, "pelvis peak, ms before contact")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("load")
	_ = cmd.MarkFlagRequired("fire")
	return cmd
}

func newEdgeCasesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edge-cases",
		Short: "Run the validator against degenerate inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAnalyzer(cmd, "")
			if err != nil {
				return err
			}
			results := a.Validator().EdgeCases()
			opts.renderer(cmd.OutOrStdout()).Results(results)
			for _, res := range results {
				if !res.Passed {
					return fmt.Errorf("edge case failed: %s", res.TestName)
				}
			}
			return nil
		},
	}
}

func newCatalogueCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalogue",
		Short: "Validate every profile's reference swing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAnalyzer(cmd, "")
			if err != nil {
				return err
			}
			r := opts.renderer(cmd.OutOrStdout())
			for _, rep := range a.Validator().Catalogue() {
				r.Report(rep)
			}
			return nil
		},
	}
}

func newProfilesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List ground-truth profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAnalyzer(cmd, "")
			if err != nil {
				return err
			}
			opts.renderer(cmd.OutOrStdout()).Profiles(a.Tables().Profiles)
			return nil
		},
	}
}

func newSubmitCommand(opts *rootOptions) *cobra.Command {
	var (
		server  string
		timeout time.Duration
		workers int
	)
	cmd := &cobra.Command{
		Use:     "submit <glob>",
		Short:   "Post record files to a running server",
		Example: `  swingctl submit 'swings/**/*.json' --server http://localhost:9080`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := LoadRecords(args[0])
			if err != nil {
				return err
			}
			stats := NewClient(server, timeout, workers).Submit(cmd.Context(), entries)
			opts.renderer(cmd.OutOrStdout()).Submitted(stats)
			if stats.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrSubmitFailed, stats.Failed, stats.Submitted)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultServer, "server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "per-request timeout")
	cmd.Flags().IntVar(&workers, "workers", defaultWorkers, "concurrent submitters")
	return cmd
}
