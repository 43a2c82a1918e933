package dataset

import (
	"fmt"

	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
)

// renames maps raw GSS column names to the names used by the dashboard.
// Only these columns are kept.
var renames = map[string]string{
	"id":       "id",
	"wtss":     "weight",
	"sex":      "sex",
	"educ":     "education",
	"region":   "region",
	"age":      "age",
	"coninc":   "income",
	"prestg10": "job_prestige",
	"mapres10": "mother_job_prestige",
	"papres10": "father_job_prestige",
	"sei10":    "socioeconomic_index",
	"satjob":   "satjob",
	"fechld":   "relationship",
	"fefam":    "male_breadwinner",
	"fepol":    "men_bettersuited",
	"fepresch": "child_suffer",
	"meovrwrk": "men_overwork",
}

var numericColumns = map[string]bool{
	"id":                  true,
	"weight":              true,
	"education":           true,
	"age":                 true,
	"income":              true,
	"job_prestige":        true,
	"mother_job_prestige": true,
	"father_job_prestige": true,
	"socioeconomic_index": true,
}

// naValues are the GSS codes read as missing.
var naValues = map[string]bool{
	"IAP":                     true,
	"IAP,DK,NA,uncodeable":    true,
	"NOT SURE":                true,
	"DK":                      true,
	"IAP, DK, NA, uncodeable": true,
	".a":                      true,
	"CAN'T CHOOSE":            true,
}

// selectionColumns maps selection keys to the Record field they read.
var selectionColumns = map[model.Axis]map[string]string{
	model.AxisCategory: {
		"job_satisfaction": "satjob",
		"relationship":     "relationship",
		"male_breadwinner": "male_breadwinner",
		"men_bettersuited": "men_bettersuited",
		"child_suffer":     "child_suffer",
	},
	model.AxisGroup: {
		"sex":       "sex",
		"region":    "region",
		"education": "education",
	},
}

// ColumnFor maps a selection key to the Record field it reads.
func ColumnFor(axis model.Axis, key string) (string, error) {
	col, ok := selectionColumns[axis][key]
	if !ok {
		return "", fmt.Errorf("%w: no column for %s %q", options.ErrInvalidOption, axis, key)
	}
	return col, nil
}

// RequiredColumns lists the raw source columns every option in reg reads.
func RequiredColumns(reg *options.Registry) ([]string, error) {
	raw := make(map[string]string, len(renames))
	for from, to := range renames {
		raw[to] = from
	}
	var cols []string
	for _, axis := range []model.Axis{model.AxisCategory, model.AxisGroup} {
		for _, o := range reg.OptionsFor(axis) {
			col, err := ColumnFor(axis, o.Key)
			if err != nil {
				return nil, err
			}
			cols = append(cols, raw[col])
		}
	}
	return cols, nil
}
