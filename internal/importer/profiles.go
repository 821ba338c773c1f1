package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Column names a profile can reference.
const (
	ColDate         = "date"
	ColDescription  = "description"
	ColDescription2 = "description2"
	ColExpense      = "expense"
	ColIncome       = "income"
	ColStatus       = "status"
	ColProject      = "project"
	ColCategory     = "category"

	ColCode        = "code"
	ColName        = "name"
	ColBODCategory = "bod_category"
)

// Profile is the ordered list of column names an input format carries.
// Position in the profile is position in the row; rows shorter than the
// profile read absent for the trailing columns.
type Profile []string

// index maps column names to their row position.
func (p Profile) index() map[string]int {
	idx := make(map[string]int, len(p))
	for i, name := range p {
		idx[name] = i
	}

	return idx
}

// Profiles holds one column profile per import entity.
type Profiles struct {
	Transactions Profile `yaml:"transactions"`
	Accounts     Profile `yaml:"accounts"`
}

// DefaultProfiles is the column order the paste grid and exports use.
func DefaultProfiles() Profiles {
	return Profiles{
		Transactions: Profile{
			ColDate, ColDescription, ColDescription2,
			ColExpense, ColIncome, ColStatus, ColProject, ColCategory,
		},
		Accounts: Profile{ColCode, ColName, ColBODCategory},
	}
}

// LoadProfiles reads a profile override file. Entities the file does not
// mention keep their default profile.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()

	data, err := os.ReadFile(path)
	if err != nil {
		return profiles, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var override Profiles
	if err := yaml.Unmarshal(data, &override); err != nil {
		return profiles, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	if len(override.Transactions) > 0 {
		profiles.Transactions = override.Transactions
	}

	if len(override.Accounts) > 0 {
		profiles.Accounts = override.Accounts
	}

	return profiles, nil
}
