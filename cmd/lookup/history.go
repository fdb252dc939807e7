package lookup

import (
	"github.com/spf13/cobra"

	"github.com/scienceol/chemlookup/pkg/common"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	"github.com/scienceol/chemlookup/pkg/repo"
)

// NewHistory lists recorded lookups; needs STORE_ENABLE=true.
func NewHistory() *cobra.Command {
	var (
		output    string
		page      int
		pageSize  int
		namespace string
		query     string
		cid       int64
	)
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List recorded lookups, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      InitBackends,
		RunE: WithBackends(func(cmd *cobra.Command, _ []string) error {
			format, err := (&options{output: output}).format()
			if err != nil {
				return err
			}

			req := &core.HistoryReq{PageReq: common.PageReq{Page: page, PageSize: pageSize}}
			if namespace != "" {
				ns := repo.Namespace(namespace)
				req.Namespace = &ns
			}
			if query != "" {
				req.Query = &query
			}
			if cid > 0 {
				req.CID = &cid
			}

			resp, err := newService().History(cmd.Context(), req)
			if err != nil {
				return err
			}
			return RenderHistory(cmd.OutOrStdout(), format, resp)
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output format: text, json or yaml (default $OUTPUT_FORMAT)")
	f.IntVar(&page, "page", 1, "page number")
	f.IntVar(&pageSize, "page-size", 20, "records per page")
	f.StringVar(&namespace, "namespace", "", "only smiles, cid or name lookups")
	f.StringVarP(&query, "query", "q", "", "only queries containing this text")
	f.Int64Var(&cid, "cid", 0, "only lookups that resolved to this CID")
	return cmd
}
