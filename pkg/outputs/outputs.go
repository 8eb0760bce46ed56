// Package outputs collects the observations and images of interest produced
// by trait analysis. A Results value is an explicit, caller-owned store that
// the analyzers append to; nothing in this package is process-global.
package outputs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"phenoflux/pkg/fluor"
)

// Observation is a single recorded phenotype measurement. Observations are
// created once, appended to a Results store and never mutated.
type Observation struct {
	// Sample identifies the sample (plant) the observation belongs to.
	Sample string `json:"sample"`

	// Variable is the observation's variable name, e.g. "yii_median_t0".
	Variable string `json:"variable"`

	// Trait is a human-readable description of the measured trait.
	Trait string `json:"trait"`

	// Method identifies the analysis routine that produced the value.
	Method string `json:"method"`

	// Scale names the unit of the value, or "none" for dimensionless traits.
	Scale string `json:"scale"`

	// Datatype tags the shape of Value, e.g. "float" or "list".
	Datatype string `json:"datatype"`

	// Value is the observed value: a float64 for scalar traits, a slice for
	// list traits such as histogram frequencies.
	Value any `json:"value"`

	// Label annotates the value, e.g. the bin edges of a histogram, or
	// "none" when no annotation applies.
	Label any `json:"label"`
}

// Results accumulates the observations and images of interest from one or
// more analysis calls. Appends are not synchronized; callers running analyses
// concurrently against a shared store must serialize access themselves.
type Results struct {
	// Observations holds every recorded observation in append order.
	Observations []Observation

	// Images collects efficiency maps flagged for later aggregate export.
	Images []*fluor.EfficiencyMap
}

// NewResults creates an empty results store.
func NewResults() *Results {
	return &Results{}
}

// AddObservation appends a single observation to the store.
func (r *Results) AddObservation(sample, variable, trait, method, scale, datatype string, value, label any) {
	r.Observations = append(r.Observations, Observation{
		Sample:   sample,
		Variable: variable,
		Trait:    trait,
		Method:   method,
		Scale:    scale,
		Datatype: datatype,
		Value:    value,
		Label:    label,
	})
}

// AddImage appends an efficiency map to the images-of-interest collection.
func (r *Results) AddImage(img *fluor.EfficiencyMap) {
	r.Images = append(r.Images, img)
}

// SaveResults writes all recorded observations to a JSON file, creating the
// parent directory if needed.
func (r *Results) SaveResults(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating results directory: %w", err)
		}
	}

	doc := struct {
		Observations []Observation `json:"observations"`
	}{Observations: r.Observations}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling observations: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing results file: %w", err)
	}

	return nil
}
