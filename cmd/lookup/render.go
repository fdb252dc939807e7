package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/scienceol/chemlookup/pkg/common"
	"github.com/scienceol/chemlookup/pkg/common/code"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	"github.com/scienceol/chemlookup/pkg/repo"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", code.ParamErr.WithMsgf("output format %q, want text, json or yaml", s)
	}
}

// TextLine is "<cid> <iupac_name> <molecular_formula>". A missing name
// prints as "-" so the line always has three fields.
func TextLine(c *repo.CompoundInfo) string {
	name := c.IUPACName
	if name == "" {
		name = "-"
	}
	formula := c.MolecularFormula
	if formula == "" {
		formula = "-"
	}
	return fmt.Sprintf("%d %s %s", c.CID, name, formula)
}

// RenderLookup prints the first record, or every record when all is set.
func RenderLookup(w io.Writer, f Format, resp *core.LookupResp, all bool) error {
	switch f {
	case FormatJSON, FormatYAML:
		if all {
			return encode(w, f, resp)
		}
		return encode(w, f, resp.First)
	default:
		records := []*repo.CompoundInfo{resp.First}
		if all {
			records = resp.Compounds
		}
		for _, c := range records {
			if _, err := fmt.Fprintln(w, TextLine(c)); err != nil {
				return err
			}
		}
		return nil
	}
}

func RenderBatch(w io.Writer, f Format, resp *core.BatchResp, all bool) error {
	if f != FormatText {
		return encode(w, f, resp)
	}

	for _, item := range resp.Items {
		if item.Error != "" {
			if _, err := fmt.Fprintf(w, "%s %s error: %s\n", item.Namespace, item.Query, item.Error); err != nil {
				return err
			}
			continue
		}
		if err := RenderLookup(w, f, item.Result, all); err != nil {
			return err
		}
	}
	return nil
}

func RenderCIDs(w io.Writer, f Format, cids []int64) error {
	if f != FormatText {
		return encode(w, f, map[string][]int64{"cids": cids})
	}
	for _, cid := range cids {
		if _, err := fmt.Fprintln(w, cid); err != nil {
			return err
		}
	}
	return nil
}

func RenderHistory(w io.Writer, f Format, page *common.PageResp[[]*core.HistoryItem]) error {
	if f != FormatText {
		return encode(w, f, page)
	}
	for _, item := range page.Data {
		name := item.IUPACName
		if name == "" {
			name = "-"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %d %s %s %s\n",
			item.CreatedAt.Format(time.RFC3339), item.Namespace, item.Query,
			item.CID, name, item.MolecularFormula, item.Source); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d total\n", page.Page, pages(page.Total, page.PageSize), page.Total)
	return err
}

func pages(total int64, size int) int64 {
	if size <= 0 {
		return 1
	}
	n := (total + int64(size) - 1) / int64(size)
	if n == 0 {
		return 1
	}
	return n
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
