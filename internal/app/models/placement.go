package models

import "strings"

// PlacementRecord defines one student's placement outcome, based on the
// 'placements' table. All business fields are stored as text; Package holds
// the annual compensation in LPA as a decimal string.
type PlacementRecord struct {
	ID         string `json:"id" db:"id" example:"7ed99bd0-87b2-4dbb-a97b-596c3f29c49b"` // Unique identifier, system-assigned
	Name       string `json:"name" db:"name" example:"John Doe"`
	RegNo      string `json:"regNo" db:"reg_no" example:"R100"` // Registration number, unique per institution
	Batch      string `json:"batch" db:"batch" example:"2024"`
	Company    string `json:"company" db:"company" example:"Acme Corp"`
	Package    string `json:"package" db:"package" example:"12.5"`
	Branch     string `json:"branch" db:"branch" example:"CSE"`
	PlacedDate string `json:"placedDate" db:"placed_date" example:"2024-05-01"`
}

// requiredFields returns the seven fields a record must carry to be ingested.
func (p *PlacementRecord) requiredFields() []string {
	return []string{p.Name, p.RegNo, p.Batch, p.Company, p.Package, p.Branch, p.PlacedDate}
}

// Valid reports whether every required field is present and non-whitespace.
// The identifier is excluded; it is assigned by the store.
func (p *PlacementRecord) Valid() bool {
	for _, f := range p.requiredFields() {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}
