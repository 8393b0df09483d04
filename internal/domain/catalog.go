package domain

import (
	"encoding/json"
	"strings"
)

// Catalog is the full catalog document: brand name -> ordered product list.
// This is the shape served and accepted by the admin catalog endpoints.
type Catalog map[string][]Product

type Product struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Units       []Unit `json:"units"`
}

// Unit is a single physical item on the shelf. Unit ids are unique across
// the whole catalog; a removed unit only comes back through a restock.
type Unit struct {
	ID        string  `json:"id" db:"id"`
	Condition string  `json:"condition" db:"condition"`
	Storage   string  `json:"storage,omitempty" db:"storage"`
	Color     string  `json:"color,omitempty" db:"color"`
	Price     float64 `json:"price" db:"price"`
}

// UnitID tolerates both `"42"` and `42` in request payloads; storefront
// clients send numeric ids for units imported from the old stock sheet.
type UnitID string

func (u *UnitID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UnitID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*u = UnitID(n.String())
	return nil
}

func (u UnitID) String() string { return string(u) }

// CartItem carries the unit id the client wants and the price it last saw.
// The price is advisory only; the charged price always comes from the
// catalog at checkout time.
type CartItem struct {
	ID    UnitID  `json:"id"`
	Price float64 `json:"price"`
}
