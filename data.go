package verdant

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

//go:embed data/*.csv
var dataFS embed.FS

// Stat is one row of the deforestation dataset shown by BarChart.
type Stat struct {
	Region         string  `csv:"region"`
	Year           int     `csv:"year"`
	HectaresLost   float64 `csv:"hectares_lost"`
	PercentOfTotal float64 `csv:"percent_of_total"`
	Color          string  `csv:"color"` // hex, e.g. "#FF5722"
}

// Solution is one call-to-action card in the closing panel.
type Solution struct {
	ID          int    `csv:"id"`
	Title       string `csv:"title"`
	Description string `csv:"description"`
	Icon        string `csv:"icon"`
	ActionText  string `csv:"action_text"`
}

// LoadStats reads the stats dataset from a CSV file. An empty path loads the
// embedded dataset.
func LoadStats(path string) ([]Stat, error) {
	data, err := readDataset(path, "data/stats.csv")
	if err != nil {
		return nil, err
	}
	var stats []Stat
	if err := gocsv.UnmarshalBytes(data, &stats); err != nil {
		return nil, fmt.Errorf("parsing stats: %w", err)
	}
	for i, s := range stats {
		if s.HectaresLost < 0 {
			return nil, fmt.Errorf("stats row %d (%s): negative hectares_lost %v", i+1, s.Region, s.HectaresLost)
		}
	}
	return stats, nil
}

// LoadSolutions reads the solutions dataset from a CSV file. An empty path
// loads the embedded dataset.
func LoadSolutions(path string) ([]Solution, error) {
	data, err := readDataset(path, "data/solutions.csv")
	if err != nil {
		return nil, err
	}
	var out []Solution
	if err := gocsv.UnmarshalBytes(data, &out); err != nil {
		return nil, fmt.Errorf("parsing solutions: %w", err)
	}
	return out, nil
}

// WriteStats encodes stats as CSV with a header row.
func WriteStats(w io.Writer, stats []Stat) error {
	if err := gocsv.Marshal(stats, w); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

func readDataset(path, embedded string) ([]byte, error) {
	if path == "" {
		data, err := dataFS.ReadFile(embedded)
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", embedded, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return data, nil
}
