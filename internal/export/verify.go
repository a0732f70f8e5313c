package export

import (
	"fmt"
	"os"
	"time"

	"github.com/GoSim-25-26J-441/datagen/internal/generator"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// VerifyFile reads a dataset back from path and checks the record
// invariants and the window bounds. It returns the number of records.
func VerifyFile(path string, windowStart, windowEnd time.Time) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	if err := verifyRecords(records, windowStart, windowEnd); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return len(records), nil
}

func verifyRecords(records []models.Interaction, windowStart, windowEnd time.Time) error {
	if err := generator.Validate(records); err != nil {
		return err
	}
	return generator.ValidateWindow(records, windowStart, windowEnd)
}
