package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadaudit/internal/model"
)

// Lead output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
	formatXLSX  = "xlsx"
)

var leadColumns = []string{"Name", "Score", "Tier", "Rating", "Reviews", "Website", "Phone", "Address", "Opportunities"}

// leadRow is the flat export shape of a lead.
type leadRow struct {
	Name          string   `yaml:"name"`
	Score         int      `yaml:"score"`
	Tier          string   `yaml:"tier"`
	Rating        float64  `yaml:"rating"`
	Reviews       int      `yaml:"reviews"`
	Website       string   `yaml:"website,omitempty"`
	Phone         string   `yaml:"phone,omitempty"`
	Address       string   `yaml:"address,omitempty"`
	Opportunities []string `yaml:"opportunities,omitempty"`
}

func toRow(l model.Lead) leadRow {
	return leadRow{
		Name:          l.Name,
		Score:         l.LeadScore,
		Tier:          string(l.Tier),
		Rating:        l.Rating,
		Reviews:       l.TotalReviews,
		Website:       l.Website,
		Phone:         l.Phone,
		Address:       l.Address,
		Opportunities: l.Opportunities,
	}
}

func (r leadRow) cells() []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Score),
		r.Tier,
		strconv.FormatFloat(r.Rating, 'f', 1, 64),
		strconv.Itoa(r.Reviews),
		r.Website,
		r.Phone,
		r.Address,
		strings.Join(r.Opportunities, "; "),
	}
}

// writeLeads renders leads to w. xlsx is binary and goes through saveLeadsXLSX.
func writeLeads(w io.Writer, format string, leads []model.Lead) error {
	switch format {
	case formatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tTIER\tNAME\tRATING\tREVIEWS\tOPPORTUNITIES")
		for _, l := range leads {
			r := toRow(l)
			c := r.cells()
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", r.Score, r.Tier, r.Name, c[3], r.Reviews, c[8])
		}
		return tw.Flush()
	case formatJSON:
		return printJSON(w, leads)
	case formatYAML:
		rows := make([]leadRow, len(leads))
		for i, l := range leads {
			rows[i] = toRow(l)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return eris.Wrap(err, "leads: encode yaml")
		}
		return enc.Close()
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(leadColumns); err != nil {
			return eris.Wrap(err, "leads: write csv header")
		}
		for _, l := range leads {
			if err := cw.Write(toRow(l).cells()); err != nil {
				return eris.Wrap(err, "leads: write csv row")
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return eris.Errorf("leads: unknown format %q", format)
	}
}

// saveLeadsXLSX writes leads to a single-sheet workbook at path.
func saveLeadsXLSX(path string, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow := func(values []string) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	addRow(leadColumns)
	for _, l := range leads {
		row := sheet.AddRow()
		for i, v := range toRow(l).cells() {
			cell := row.AddCell()
			switch i {
			case 1, 4:
				n, _ := strconv.Atoi(v)
				cell.SetInt(n)
			case 3:
				cell.SetFloat(l.Rating)
			default:
				cell.SetString(v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save file")
	}
	return nil
}
