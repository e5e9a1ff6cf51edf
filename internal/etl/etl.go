// Package etl loads the ICRISAT district-level crop production CSV and the
// monthly district rainfall CSV into the two queryable tables. The crop file
// arrives wide (one production column per crop) and is melted into long
// format; both files get their state and district names uppercased and
// trimmed so the tables join cleanly.
package etl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// CropRecord is one row of the long-format crop_production table.
type CropRecord struct {
	StateName    string
	DistrictName string
	Year         int
	CropName     string
	Production   float64 // tonnes
}

// RainfallRecord is one row of the rainfall table.
type RainfallRecord struct {
	StateName      string
	DistrictName   string
	Year           int
	AnnualRainfall float64 // mm
}

var productionSuffix = regexp.MustCompile(` PRODUCTION \(.*\)`)

// TransformCrops melts the wide crop CSV into long-format records. ID
// columns are "State Name", "Dist Name" and "Year"; every column whose
// header contains "PRODUCTION" becomes a crop row. Rows with zero, negative
// or unparseable production are dropped as useless for analysis.
func TransformCrops(r io.Reader) ([]CropRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read crop CSV header: %w", err)
	}

	stateIdx, err := columnIndex(header, "State Name")
	if err != nil {
		return nil, err
	}
	distIdx, err := columnIndex(header, "Dist Name")
	if err != nil {
		return nil, err
	}
	yearIdx, err := columnIndex(header, "Year")
	if err != nil {
		return nil, err
	}

	// Production columns in header order, each mapped to a cleaned crop name.
	type prodCol struct {
		idx  int
		name string
	}
	var crops []prodCol
	for i, col := range header {
		if strings.Contains(col, "PRODUCTION") {
			name := productionSuffix.ReplaceAllString(col, "")
			crops = append(crops, prodCol{idx: i, name: strings.ToUpper(strings.TrimSpace(name))})
		}
	}
	if len(crops) == 0 {
		return nil, fmt.Errorf("no PRODUCTION columns found in crop CSV header")
	}

	// Rows too short to hold the ID columns are skipped like any other
	// unusable row; the reader accepts ragged records.
	minLen := maxIndex(stateIdx, distIdx, yearIdx) + 1

	var records []CropRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read crop CSV row: %w", err)
		}
		if len(row) < minLen {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			continue
		}

		state := normalizeName(row[stateIdx])
		district := normalizeName(row[distIdx])

		for _, crop := range crops {
			if crop.idx >= len(row) {
				continue
			}
			production, err := strconv.ParseFloat(strings.TrimSpace(row[crop.idx]), 64)
			if err != nil || production <= 0 {
				continue
			}
			records = append(records, CropRecord{
				StateName:    state,
				DistrictName: district,
				Year:         year,
				CropName:     crop.name,
				Production:   production,
			})
		}
	}

	return records, nil
}

// TransformRainfall extracts the State, District, Year and final_annual
// columns from the rainfall CSV.
func TransformRainfall(r io.Reader) ([]RainfallRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read rainfall CSV header: %w", err)
	}

	stateIdx, err := columnIndex(header, "State")
	if err != nil {
		return nil, err
	}
	distIdx, err := columnIndex(header, "District")
	if err != nil {
		return nil, err
	}
	yearIdx, err := columnIndex(header, "Year")
	if err != nil {
		return nil, err
	}
	annualIdx, err := columnIndex(header, "final_annual")
	if err != nil {
		return nil, err
	}

	minLen := maxIndex(stateIdx, distIdx, yearIdx, annualIdx) + 1

	var records []RainfallRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rainfall CSV row: %w", err)
		}
		if len(row) < minLen {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			continue
		}
		annual, err := strconv.ParseFloat(strings.TrimSpace(row[annualIdx]), 64)
		if err != nil {
			continue
		}

		records = append(records, RainfallRecord{
			StateName:      normalizeName(row[stateIdx]),
			DistrictName:   normalizeName(row[distIdx]),
			Year:           year,
			AnnualRainfall: annual,
		})
	}

	return records, nil
}

// Load drops and recreates both tables, then inserts all records in one
// transaction per table, so the ingest command can be re-run safely.
func Load(ctx context.Context, db *sqlx.DB, crops []CropRecord, rainfall []RainfallRecord) error {
	if err := loadCrops(ctx, db, crops); err != nil {
		return err
	}
	log.Printf("Created 'crop_production' table (%d rows).", len(crops))

	if err := loadRainfall(ctx, db, rainfall); err != nil {
		return err
	}
	log.Printf("Created 'rainfall' table (%d rows).", len(rainfall))

	return nil
}

func loadCrops(ctx context.Context, db *sqlx.DB, records []CropRecord) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS crop_production`); err != nil {
		return fmt.Errorf("failed to drop crop_production: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE crop_production (
			State_Name TEXT,
			District_Name TEXT,
			Year INTEGER,
			Crop_Name TEXT,
			Production_Tonnes REAL
		)`); err != nil {
		return fmt.Errorf("failed to create crop_production: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO crop_production (State_Name, District_Name, Year, Crop_Name, Production_Tonnes) VALUES (?, ?, ?, ?, ?)`)
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insert, rec.StateName, rec.DistrictName, rec.Year, rec.CropName, rec.Production); err != nil {
			return fmt.Errorf("failed to insert crop row: %w", err)
		}
	}

	return tx.Commit()
}

func loadRainfall(ctx context.Context, db *sqlx.DB, records []RainfallRecord) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS rainfall`); err != nil {
		return fmt.Errorf("failed to drop rainfall: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE rainfall (
			State_Name TEXT,
			District_Name TEXT,
			Year INTEGER,
			Annual_Rainfall_mm REAL
		)`); err != nil {
		return fmt.Errorf("failed to create rainfall: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO rainfall (State_Name, District_Name, Year, Annual_Rainfall_mm) VALUES (?, ?, ?, ?)`)
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insert, rec.StateName, rec.DistrictName, rec.Year, rec.AnnualRainfall); err != nil {
			return fmt.Errorf("failed to insert rainfall row: %w", err)
		}
	}

	return tx.Commit()
}

// Run executes the full ETL from the two CSV files into the database.
func Run(ctx context.Context, db *sqlx.DB, cropCSV, rainfallCSV string) error {
	cropFile, err := os.Open(cropCSV)
	if err != nil {
		return fmt.Errorf("failed to open crop CSV: %w", err)
	}
	defer cropFile.Close()

	rainFile, err := os.Open(rainfallCSV)
	if err != nil {
		return fmt.Errorf("failed to open rainfall CSV: %w", err)
	}
	defer rainFile.Close()

	log.Printf("Extracting data from '%s' and '%s'...", cropCSV, rainfallCSV)

	crops, err := TransformCrops(cropFile)
	if err != nil {
		return fmt.Errorf("failed to transform crop data: %w", err)
	}
	rainfall, err := TransformRainfall(rainFile)
	if err != nil {
		return fmt.Errorf("failed to transform rainfall data: %w", err)
	}

	return Load(ctx, db, crops, rainfall)
}

func normalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func maxIndex(indexes ...int) int {
	max := 0
	for _, i := range indexes {
		if i > max {
			max = i
		}
	}
	return max
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("required column %q not found in CSV header", name)
}
