package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

// Header is the fixed first row of every exported dataset
var Header = []string{"nodeNaam1", "nodeNaam2", "begintijd", "eindtijd"}

// WriteCSV writes the header and one row per record
func WriteCSV(w io.Writer, records []models.Interaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, 4)
	for i, r := range records {
		row[0] = strconv.Itoa(r.EntityLow)
		row[1] = strconv.Itoa(r.EntityHigh)
		row[2] = utils.FormatStamp(r.Start)
		row[3] = utils.FormatStamp(r.End)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset written by WriteCSV
func ReadCSV(r io.Reader) ([]models.Interaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range Header {
		if head[i] != col {
			return nil, fmt.Errorf("unexpected header column %d: %q, want %q", i, head[i], col)
		}
	}

	var out []models.Interaction
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseRow(row []string) (models.Interaction, error) {
	var rec models.Interaction
	var err error
	if rec.EntityLow, err = strconv.Atoi(row[0]); err != nil {
		return rec, fmt.Errorf("%s: %w", Header[0], err)
	}
	if rec.EntityHigh, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("%s: %w", Header[1], err)
	}
	if rec.Start, err = utils.ParseStamp(row[2]); err != nil {
		return rec, fmt.Errorf("%s: %w", Header[2], err)
	}
	if rec.End, err = utils.ParseStamp(row[3]); err != nil {
		return rec, fmt.Errorf("%s: %w", Header[3], err)
	}
	return rec, nil
}
