package model

import (
	"gorm.io/datatypes"
)

// CompoundLookup is one answered query. The first record is flattened into
// columns; every record is kept in Records.
type CompoundLookup struct {
	BaseModel
	Namespace        string         `gorm:"type:varchar(16);not null;index:idx_compound_lookup_ns_query" json:"namespace"`
	Query            string         `gorm:"type:text;not null;index:idx_compound_lookup_ns_query" json:"query"`
	CID              int64          `gorm:"column:cid;not null;default:0;index:idx_compound_lookup_cid" json:"cid"`
	Title            string         `gorm:"type:text" json:"title"`
	IUPACName        string         `gorm:"column:iupac_name;type:text" json:"iupac_name"`
	MolecularFormula string         `gorm:"type:varchar(255)" json:"molecular_formula"`
	MolecularWeight  string         `gorm:"type:varchar(32)" json:"molecular_weight"`
	SMILES           string         `gorm:"column:smiles;type:text" json:"smiles"`
	InChIKey         string         `gorm:"column:inchikey;type:varchar(32)" json:"inchikey"`
	ResultCount      int            `gorm:"not null;default:0" json:"result_count"`
	Source           string         `gorm:"type:varchar(16);not null" json:"source"`
	Records          datatypes.JSON `gorm:"type:jsonb" json:"records"`
}

func (*CompoundLookup) TableName() string { return "compound_lookup" }
