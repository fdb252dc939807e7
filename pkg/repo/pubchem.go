package repo

import "context"

// Namespace is the PUG-REST input namespace of a query.
type Namespace string

const (
	NamespaceSMILES Namespace = "smiles"
	NamespaceCID    Namespace = "cid"
	NamespaceName   Namespace = "name"
)

func (n Namespace) Valid() bool {
	switch n {
	case NamespaceSMILES, NamespaceCID, NamespaceName:
		return true
	}
	return false
}

// CompoundInfo holds the basic information for a chemical compound.
type CompoundInfo struct {
	CID              int64  `json:"cid" yaml:"cid"`
	Title            string `json:"title,omitempty" yaml:"title,omitempty"`
	IUPACName        string `json:"iupac_name" yaml:"iupac_name"`
	MolecularFormula string `json:"molecular_formula" yaml:"molecular_formula"`
	MolecularWeight  string `json:"molecular_weight,omitempty" yaml:"molecular_weight,omitempty"`
	SMILES           string `json:"smiles,omitempty" yaml:"smiles,omitempty"`
	InChIKey         string `json:"inchikey,omitempty" yaml:"inchikey,omitempty"`
	ImageURL         string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	PageURL          string `json:"page_url,omitempty" yaml:"page_url,omitempty"`
}

// PubChemRepo defines the interface for interacting with the PubChem API.
type PubChemRepo interface {
	// GetCompounds returns the property records PubChem matches for term,
	// in PubChem's order.
	GetCompounds(ctx context.Context, namespace Namespace, term string) ([]*CompoundInfo, error)
	// GetCIDs returns only the identifiers; a lone 0 means no match.
	GetCIDs(ctx context.Context, namespace Namespace, term string) ([]int64, error)
	// StructureImageURL is PubChem's PNG rendering of an arbitrary SMILES,
	// usable even when the structure has no CID.
	StructureImageURL(smiles string) string
}
