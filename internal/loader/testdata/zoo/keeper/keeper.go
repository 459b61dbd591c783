package keeper

import "github.com/griffnb/core-jsonschema/internal/loader/testdata/zoo/animals"

// Keeper looks after animals.
type Keeper struct {
	Animals []animals.Animal `json:"animals"`
}
