package datasets

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//go:embed iris.csv
var irisCSV string

//go:embed wine.csv
var wineCSV string

// LoadIris returns the iris flower dataset: 150 samples, 4 features,
// 3 balanced classes (setosa, versicolor, virginica). The classic first
// dataset for multiclass classification.
func LoadIris() *Dataset {
	d := mustParseCSV("iris", irisCSV)
	d.TargetNames = []string{"setosa", "versicolor", "virginica"}
	d.Description = "Iris flower measurements: 150 samples, 4 features, 3 balanced classes."
	return d
}

// LoadWine returns the wine recognition dataset: 178 samples, 13 chemical
// analysis features, 3 cultivars with unequal class sizes. Its features live
// on wildly different scales (proline in the hundreds, hue near 1), which
// makes it the standard demonstration of why distance-based models need
// feature scaling.
func LoadWine() *Dataset {
	d := mustParseCSV("wine", wineCSV)
	d.TargetNames = []string{"cultivar_0", "cultivar_1", "cultivar_2"}
	d.Description = "Wine cultivar chemical analysis: 178 samples, 13 features, 3 classes."
	return d
}

// mustParseCSV parses an embedded dataset. The last column is the target;
// the header supplies feature names. Embedded assets are validated by the
// package tests, so a parse failure here is a build defect and panics.
func mustParseCSV(name, raw string) *Dataset {
	reader := csv.NewReader(strings.NewReader(raw))
	records, err := reader.ReadAll()
	if err != nil {
		panic(fmt.Sprintf("datasets: embedded %s data is malformed: %v", name, err))
	}
	if len(records) < 2 {
		panic(fmt.Sprintf("datasets: embedded %s data is empty", name))
	}

	header := records[0]
	nFeatures := len(header) - 1
	nSamples := len(records) - 1

	data := mat.NewDense(nSamples, nFeatures, nil)
	target := mat.NewDense(nSamples, 1, nil)

	for i, record := range records[1:] {
		if len(record) != nFeatures+1 {
			panic(fmt.Sprintf("datasets: embedded %s data: row %d has %d columns, want %d",
				name, i+1, len(record), nFeatures+1))
		}
		for j := 0; j < nFeatures; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				panic(fmt.Sprintf("datasets: embedded %s data: row %d column %d: %v", name, i+1, j, err))
			}
			data.Set(i, j, v)
		}
		label, err := strconv.ParseFloat(record[nFeatures], 64)
		if err != nil {
			panic(fmt.Sprintf("datasets: embedded %s data: row %d label: %v", name, i+1, err))
		}
		target.Set(i, 0, label)
	}

	return &Dataset{
		Data:         data,
		Target:       target,
		FeatureNames: append([]string(nil), header[:nFeatures]...),
	}
}
