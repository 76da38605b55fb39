package surface

import "github.com/househunt/househunt-go/internal/model"

// Surface names.
const (
	Main     = "main"
	SideMenu = "side-menu"
)

// Requirement field names.
const (
	FieldChecked = "checked"
	FieldText    = "text"
)

// Shortlist field names.
const (
	FieldAddress  = "address"
	FieldPrice    = "price"
	FieldBedrooms = "bedrooms"
	FieldType     = "type"
	FieldLink     = "link"
)

// RequirementSchema renders a checkbox followed by the requirement text.
var RequirementSchema = Schema[model.RequirementItem]{
	Fields: []FieldSpec{
		{Name: FieldChecked, Kind: Checkbox},
		{Name: FieldText, Kind: Text, Placeholder: "Enter requirement..."},
	},
	Values: func(it model.RequirementItem) []Value {
		return []Value{{Checked: it.Checked}, {Text: it.Text}}
	},
	Item: func(_ model.RequirementItem, v []Value) model.RequirementItem {
		return model.RequirementItem{Checked: v[0].Checked, Text: v[1].Text}
	},
}

// ShortlistSchema renders the five text fields of a property. Coordinates
// have no input; they ride along from the rendered item and are dropped when
// the address is edited, so the pin is re-geocoded for the new address.
var ShortlistSchema = Schema[model.ShortlistItem]{
	Fields: []FieldSpec{
		{Name: FieldAddress, Kind: Text, Placeholder: "Address"},
		{Name: FieldPrice, Kind: Text, Placeholder: "Price"},
		{Name: FieldBedrooms, Kind: Text, Placeholder: "Bedrooms"},
		{Name: FieldType, Kind: Text, Placeholder: "Type"},
		{Name: FieldLink, Kind: Text, Placeholder: "Rightmove Link"},
	},
	Values: func(it model.ShortlistItem) []Value {
		return []Value{{Text: it.Address}, {Text: it.Price}, {Text: it.Bedrooms}, {Text: it.Type}, {Text: it.Link}}
	},
	Item: func(origin model.ShortlistItem, v []Value) model.ShortlistItem {
		it := model.ShortlistItem{
			Address:  v[0].Text,
			Price:    v[1].Text,
			Bedrooms: v[2].Text,
			Type:     v[3].Text,
			Link:     v[4].Text,
		}
		if origin.Coordinates != nil && origin.Address == it.Address {
			c := *origin.Coordinates
			it.Coordinates = &c
		}
		return it
	},
}

// NewRequirements creates a requirements surface.
func NewRequirements(name string) *Renderer[model.RequirementItem] {
	return New(name, RequirementSchema, model.Capacity)
}

// NewShortlist creates a shortlist surface.
func NewShortlist(name string) *Renderer[model.ShortlistItem] {
	return New(name, ShortlistSchema, model.Capacity)
}
