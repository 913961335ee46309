package export

import (
	"fmt"
	"strings"

	"stillhouse/domain"
)

var header = []string{"Type", "Date", "Product / Recipe", "Details", "Notes"}

type row [5]string

func toRows(entries []domain.LogEntry) []row {
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Distillation != nil:
			d := e.Distillation
			product := d.RecipeName
			if d.FinalProduct != "" && d.FinalProduct != d.RecipeName {
				product += " -> " + d.FinalProduct
			}
			details := fmt.Sprintf("charge %gL @ %g%%, water %gL, distillate %gL @ %g%%, power %s",
				d.EthanolAmount, d.ABVOfCharge, d.WaterIntoStill, d.DistillateAmount, d.DistillateABV, d.PowerLevel)
			rows = append(rows, row{"Distillation", e.Date, product, details, oneLine(d.Notes)})
		case e.Bottling != nil:
			b := e.Bottling
			details := fmt.Sprintf("%d bottles, %d boxes", b.BottledAmount, b.BoxesUsed)
			if b.LotNumber != "" {
				details += ", lot " + b.LotNumber
			}
			rows = append(rows, row{"Bottling", e.Date, b.Product, details, oneLine(b.Notes)})
		}
	}
	return rows
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
