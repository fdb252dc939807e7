package lookup

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/scienceol/chemlookup/pkg/common/code"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	"github.com/scienceol/chemlookup/pkg/repo"
)

func NewBatch() *cobra.Command {
	opts := &options{}
	var concurrency int
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Look up every query in a file, one per line",
		Long: `Look up every query in a file, or stdin when the file is omitted or "-".

Each line is "<namespace> <term>" with namespace one of smiles, cid or name.
A line without a namespace is read as SMILES. Blank lines and lines starting
with # are skipped.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PreRunE:      InitBackends,
		RunE: WithBackends(func(cmd *cobra.Command, args []string) error {
			format, err := opts.format()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return code.ParamErr.WithErr(err)
				}
				defer f.Close()
				in = f
			}

			items, err := ParseBatch(in)
			if err != nil {
				return err
			}
			for _, item := range items {
				item.NoCache = opts.noCache
				item.StripStereo = opts.stripStereo && item.Namespace == repo.NamespaceSMILES
			}

			resp, err := newService().Batch(cmd.Context(), &core.BatchReq{
				Items:       items,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}
			if err := RenderBatch(cmd.OutOrStdout(), format, resp, opts.all); err != nil {
				return err
			}
			if resp.Failed > 0 {
				return code.LookupErr.WithMsgf("%d of %d lookups failed", resp.Failed, len(resp.Items))
			}
			return nil
		}),
	}
	opts.bind(cmd, true)
	_ = cmd.Flags().MarkHidden("cids")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel lookups (default $BATCH_CONCURRENCY)")
	return cmd
}

// ParseBatch reads one query per line.
func ParseBatch(r io.Reader) ([]*core.LookupReq, error) {
	var items []*core.LookupReq
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, parseBatchLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, code.ParamErr.WithErr(err)
	}
	if len(items) == 0 {
		return nil, code.BatchEmptyErr
	}
	return items, nil
}

func parseBatchLine(line string) *core.LookupReq {
	if i := strings.IndexFunc(line, unicode.IsSpace); i > 0 {
		ns := repo.Namespace(strings.ToLower(line[:i]))
		if term := strings.TrimSpace(line[i:]); ns.Valid() && term != "" {
			return &core.LookupReq{Namespace: ns, Term: term}
		}
	}
	return &core.LookupReq{Namespace: repo.NamespaceSMILES, Term: line}
}
