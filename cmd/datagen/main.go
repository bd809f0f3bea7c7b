// Command datagen writes a sample defect workbook so the analysis can be
// run end to end without production data.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

func main() {
	out := flag.String("out", "data/defects.xlsx", "output workbook path")
	days := flag.Int("days", 30, "number of production days to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := generate(*out, *days, *seed); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", *days*2, *out)
}

// generate writes one Day and one Night row per production day. Night runs a
// slightly higher defect rate so the shift comparison has a real effect to
// find.
func generate(path string, days int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Defects"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"Date", "Shift", "Units_Produced", "Defect_Count"}
	for j, h := range headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	row := 2
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		for _, shift := range []struct {
			name string
			rate float64
		}{
			{"Day", 0.045},
			{"Night", 0.062},
		} {
			units := 900 + rng.Intn(300)
			defects := int(float64(units) * (shift.rate + rng.NormFloat64()*0.008))
			if defects < 0 {
				defects = 0
			}
			if defects > units {
				defects = units
			}

			values := []interface{}{date, shift.name, units, defects}
			for j, v := range values {
				cell, err := excelize.CoordinatesToCellName(j+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
