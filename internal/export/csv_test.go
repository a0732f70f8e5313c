package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

var sampleRecords = []models.Interaction{
	{EntityLow: 5, EntityHigh: 7, Start: ts("2024-09-08 06:30:00"), End: ts("2024-09-08 07:45:10")},
	{EntityLow: 7, EntityHigh: 10, Start: ts("2024-01-02 00:00:09"), End: ts("2024-01-02 00:01:09")},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords))

	want := "nodeNaam1,nodeNaam2,begintijd,eindtijd\n" +
		"5,7,20240908063000,20240908074510\n" +
		"7,10,20240102000009,20240102000109\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "nodeNaam1,nodeNaam2,begintijd,eindtijd\n", buf.String())
}

func TestReadCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "a,b,c,d\n"},
		{"too few columns", "nodeNaam1,nodeNaam2,begintijd,eindtijd\n1,2,20240101000000\n"},
		{"bad entity", "nodeNaam1,nodeNaam2,begintijd,eindtijd\nx,2,20240101000000,20240101000100\n"},
		{"short timestamp", "nodeNaam1,nodeNaam2,begintijd,eindtijd\n1,2,202401010000,20240101000100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
