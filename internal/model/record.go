package model

// Record is one survey respondent row after cleaning.
// A missing cell is an absent key in both maps.
type Record struct {
	Values  map[string]string  `json:"values"`  // categorical cells, raw text
	Numbers map[string]float64 `json:"numbers"` // numeric cells that parsed
}

// NewRecord returns a Record with initialised maps.
func NewRecord() Record {
	return Record{
		Values:  make(map[string]string),
		Numbers: make(map[string]float64),
	}
}

// Value returns the categorical value of column and whether it is present.
func (r Record) Value(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok && v != ""
}

// Number returns the numeric value of column and whether it is present.
func (r Record) Number(column string) (float64, bool) {
	v, ok := r.Numbers[column]
	return v, ok
}
