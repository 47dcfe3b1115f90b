// Package grievancetype serves the catalog of grievance types and their
// subtypes that clients offer when filing a grievance.
package grievancetype

import (
	grievancetypeDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievancetype"
)

type Type struct {
	Name     string   `json:"name"`
	Subtypes []string `json:"subtypes"`
}

func (t Type) HasSubtype(subtype string) bool {
	for _, s := range t.Subtypes {
		if s == subtype {
			return true
		}
	}
	return false
}

// Defaults mirrors the rows the migrations install.
var Defaults = []Type{
	{Name: "Workplace Conditions", Subtypes: []string{"Health and Safety", "Equipment", "Facilities", "Work Hours"}},
	{Name: "Discrimination", Subtypes: []string{"Gender", "Race", "Age", "Religion"}},
	{Name: "Harassment", Subtypes: []string{"Verbal", "Physical", "Sexual", "Psychological"}},
	{Name: "Other", Subtypes: []string{"Administrative", "Pay and Benefits", "Training", "Leave"}},
}

// Group folds catalog rows into types, keeping the order in which each type
// and subtype first appears. Inactive rows are dropped.
func Group(rows []*grievancetypeDatamodel.GrievanceType) []Type {
	types := []Type{}
	index := map[string]int{}
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		i, ok := index[row.Name]
		if !ok {
			i = len(types)
			index[row.Name] = i
			types = append(types, Type{Name: row.Name})
		}
		types[i].Subtypes = append(types[i].Subtypes, row.Subtype)
	}
	return types
}
