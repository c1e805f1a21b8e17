package gantt

import (
	"strings"

	"ganttview/internal/model"
)

// RowOptions selects how series are stacked into rows.
type RowOptions struct {
	CellHeight int

	// GroupBySeries puts all series of a group in one row instead of one
	// row per series.
	GroupBySeries bool
	// GroupByID further merges groups sharing a non-empty id into one row.
	GroupByID bool
	// GroupByIDDrawAllTitles lists every merged group in the row header and
	// grows the row by one cell height per merged group.
	GroupByIDDrawAllTitles bool
}

// HeaderItem is one entry of the vertical header.
type HeaderItem struct {
	Names       []string // group names, one per title line
	SeriesLines []string // series labels, one per line
	Height      int
	LineHeight  int
}

// Row is one horizontal lane of blocks.
type Row struct {
	Key    string // shared group id, empty for unshared rows
	Height int
	Refs   []BlockRef
	Blocks []Block
}

// LayoutRows assigns every series to a row and builds the matching header.
func LayoutRows(groups []model.Group, opts RowOptions) ([]HeaderItem, []Row) {
	var (
		header []HeaderItem
		rows   []Row
		// id -> index into rows/header for merged groups
		byID = make(map[string]int)
	)

	for gi, g := range groups {
		if !opts.GroupBySeries {
			item := HeaderItem{
				Names:      []string{g.Name},
				Height:     len(g.Series) * opts.CellHeight,
				LineHeight: opts.CellHeight,
			}
			for si, s := range g.Series {
				item.SeriesLines = append(item.SeriesLines, s.Name)
				rows = append(rows, Row{
					Height: opts.CellHeight,
					Refs:   []BlockRef{{Group: gi, Series: si}},
				})
			}
			header = append(header, item)
			continue
		}

		refs := seriesRefs(gi, g)
		if opts.GroupByID && g.ID != "" {
			if idx, ok := byID[g.ID]; ok {
				rows[idx].Refs = append(rows[idx].Refs, refs...)
				if opts.GroupByIDDrawAllTitles {
					h := &header[idx]
					h.Names = append(h.Names, g.Name)
					h.SeriesLines = append(h.SeriesLines, joinSeriesNames(g))
					h.Height += opts.CellHeight
					rows[idx].Height += opts.CellHeight
				}
				continue
			}
			byID[g.ID] = len(rows)
		}

		header = append(header, HeaderItem{
			Names:       []string{g.Name},
			SeriesLines: []string{joinSeriesNames(g)},
			Height:      opts.CellHeight,
			LineHeight:  opts.CellHeight,
		})
		row := Row{Height: opts.CellHeight, Refs: refs}
		if opts.GroupByID {
			row.Key = g.ID
		}
		rows = append(rows, row)
	}
	return header, rows
}

func seriesRefs(gi int, g model.Group) []BlockRef {
	refs := make([]BlockRef, len(g.Series))
	for si := range g.Series {
		refs[si] = BlockRef{Group: gi, Series: si}
	}
	return refs
}

func joinSeriesNames(g model.Group) string {
	names := make([]string, len(g.Series))
	for i, s := range g.Series {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
