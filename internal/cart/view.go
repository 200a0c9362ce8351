package cart

import "fmt"

// emptyPlaceholder is shown in place of line rows when the bag is empty.
const emptyPlaceholder = "Seu carrinho está vazio"

// Row is one rendered cart line with its three affordances.
type Row struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Image     string `json:"image"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`

	IncrementHref string `json:"increment_href"`
	DecrementHref string `json:"decrement_href"`
	RemoveHref    string `json:"remove_href"` // opens a confirmation, never removes directly
}

// View is the display-ready projection of a cart. Building it never mutates
// the cart, and the same cart always projects to the same view.
type View struct {
	Rows        []Row  `json:"rows"`
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
	ItemCount   int    `json:"item_count"`
	Total       string `json:"total"`
}

func BuildView(items []Item) View {
	v := View{
		ItemCount: ItemCount(items),
		Total:     FormatBRL(TotalCents(items)),
	}

	if len(items) == 0 {
		v.Empty = true
		v.Placeholder = emptyPlaceholder
		v.Rows = []Row{}
		return v
	}

	v.Rows = make([]Row, 0, len(items))
	for _, it := range items {
		key := it.Key()
		v.Rows = append(v.Rows, Row{
			Key:           key,
			Name:          it.Name,
			Size:          it.Size,
			Image:         it.Image,
			Qty:           it.Qty,
			UnitPrice:     FormatBRL(it.PriceCents),
			LineTotal:     FormatBRL(it.PriceCents * int64(it.Qty)),
			IncrementHref: "/cart/items/" + key + "/increment",
			DecrementHref: "/cart/items/" + key + "/decrement",
			RemoveHref:    "/cart/items/" + key + "/removal",
		})
	}
	return v
}

// FormatBRL renders integer cents as "R$ 370.00". Display only; totals stay
// in cents everywhere else.
func FormatBRL(cents int64) string {
	return fmt.Sprintf("R$ %d.%02d", cents/100, cents%100)
}
