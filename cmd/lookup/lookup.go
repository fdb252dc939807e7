package lookup

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/scienceol/chemlookup/internal/config"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	impl "github.com/scienceol/chemlookup/pkg/core/compound/compound"
	"github.com/scienceol/chemlookup/pkg/repo"
)

// newService is swapped in tests.
var newService = func() core.Service {
	return impl.New()
}

type options struct {
	output      string
	all         bool
	noCache     bool
	stripStereo bool
	cidsOnly    bool
}

func (o *options) bind(cmd *cobra.Command, stereo bool) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "output format: text, json or yaml (default $OUTPUT_FORMAT)")
	f.BoolVar(&o.all, "all", false, "print every matching record, not just the first")
	f.BoolVar(&o.noCache, "no-cache", false, "skip the compound cache and ask PubChem")
	f.BoolVar(&o.cidsOnly, "cids", false, "only resolve CIDs")
	if stereo {
		f.BoolVar(&o.stripStereo, "strip-stereo", false, "drop / and \\ bond stereo marks before querying")
	}
}

func (o *options) format() (Format, error) {
	if o.output == "" {
		return ParseFormat(config.Global().Output.Format)
	}
	return ParseFormat(o.output)
}

func NewSmiles() *cobra.Command {
	return newLookup(repo.NamespaceSMILES, "smiles <smiles> [|cxsmiles annotation|]",
		"Look up a compound by SMILES, optionally followed by a CXSMILES annotation", true)
}

func NewCID() *cobra.Command {
	return newLookup(repo.NamespaceCID, "cid <cid>", "Look up a compound by PubChem CID", false)
}

func NewName() *cobra.Command {
	return newLookup(repo.NamespaceName, "name <name>", "Look up a compound by name or synonym", false)
}

func newLookup(ns repo.Namespace, use, short string, stereo bool) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PreRunE:      InitBackends,
		RunE: WithBackends(func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, ns, strings.Join(args, " "))
		}),
	}
	opts.bind(cmd, stereo)
	return cmd
}

func runLookup(cmd *cobra.Command, opts *options, ns repo.Namespace, term string) error {
	format, err := opts.format()
	if err != nil {
		return err
	}

	req := &core.LookupReq{
		Namespace:   ns,
		Term:        term,
		StripStereo: opts.stripStereo,
		NoCache:     opts.noCache,
	}

	s := newService()
	if opts.cidsOnly {
		cids, err := s.CIDs(cmd.Context(), req)
		if err != nil {
			return err
		}
		return RenderCIDs(cmd.OutOrStdout(), format, cids)
	}

	resp, err := s.Lookup(cmd.Context(), req)
	if err != nil {
		return err
	}
	return RenderLookup(cmd.OutOrStdout(), format, resp, opts.all)
}
