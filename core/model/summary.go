package model

import (
	"encoding/json"
	"math"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// SummaryVersion is the format version written by ToJSON.
const SummaryVersion = "1"

// Summary is the serializable result of a fitted model, handed to
// presentation and reporting code.
type Summary struct {
	// Kind is "ols" or "logit".
	Kind string `json:"kind"`

	Version string `json:"version"`

	// StatLabel names the test statistic (t-statistic or z-statistic).
	StatLabel string `json:"stat_label"`

	// Names are the design-matrix columns in order, intercept included.
	Names []string `json:"names"`

	Coefficients   []float64 `json:"coefficients"`
	StandardErrors []float64 `json:"standard_errors"`
	TestStats      []float64 `json:"test_stats"`
	PValues        []float64 `json:"p_values"`

	Intercept bool `json:"intercept"`

	NObs int `json:"n_obs"`
	DF   int `json:"df"`

	// Stats holds finite fit statistics such as R² and AIC.
	Stats map[string]float64 `json:"stats,omitempty"`

	Diagnostics map[string]interface{} `json:"diagnostics,omitempty"`
}

// ToJSON validates s and encodes it as indented JSON.
func (s *Summary) ToJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "summary: marshal")
	}
	return data, nil
}

// FromJSON decodes and validates a Summary.
func (s *Summary) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return errors.Wrap(err, "summary: unmarshal")
	}
	return s.Validate()
}

// Validate checks that the per-coefficient slices agree in length and hold
// finite values.
func (s *Summary) Validate() error {
	if s.Kind == "" {
		return errors.NewValidationError("kind", "is required", s.Kind)
	}
	if s.Version == "" {
		return errors.NewValidationError("version", "is required", s.Version)
	}
	if len(s.Names) == 0 {
		return errors.NewValidationError("names", "fitted summary must have coefficients", len(s.Names))
	}

	k := len(s.Names)
	for field, values := range map[string][]float64{
		"coefficients":    s.Coefficients,
		"standard_errors": s.StandardErrors,
		"test_stats":      s.TestStats,
		"p_values":        s.PValues,
	} {
		if len(values) != k {
			return errors.NewValidationError(field, "length must match names", len(values))
		}
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewValidationError(field, "must be finite", v)
			}
		}
	}
	for name, v := range s.Stats {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewValidationError("stats."+name, "must be finite", v)
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Summary) Clone() *Summary {
	clone := *s
	clone.Names = append([]string(nil), s.Names...)
	clone.Coefficients = append([]float64(nil), s.Coefficients...)
	clone.StandardErrors = append([]float64(nil), s.StandardErrors...)
	clone.TestStats = append([]float64(nil), s.TestStats...)
	clone.PValues = append([]float64(nil), s.PValues...)

	if s.Stats != nil {
		clone.Stats = make(map[string]float64, len(s.Stats))
		for k, v := range s.Stats {
			clone.Stats[k] = v
		}
	}
	if s.Diagnostics != nil {
		clone.Diagnostics = make(map[string]interface{}, len(s.Diagnostics))
		for k, v := range s.Diagnostics {
			clone.Diagnostics[k] = v
		}
	}
	return &clone
}
