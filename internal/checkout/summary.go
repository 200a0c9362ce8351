package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"AspectoStore/internal/cart"
)

const timestampLayout = "02/01/2006 15:04"

// Summary renders the human-readable order text sent over both external
// channels.
func Summary(items []cart.Item, customer, method string, at time.Time) string {
	var b strings.Builder

	b.WriteString("Novo pedido - Sup Aspecto\n")
	fmt.Fprintf(&b, "Cliente: %s\n", customer)
	fmt.Fprintf(&b, "Total: %s\n", cart.FormatBRL(cart.TotalCents(items)))
	fmt.Fprintf(&b, "Pagamento: %s\n", strings.ToUpper(method))
	fmt.Fprintf(&b, "Data: %s\n", at.Format(timestampLayout))

	for _, it := range items {
		fmt.Fprintf(&b, "%s|%s|%d\n", it.Name, it.Size, it.Qty)
	}

	return strings.TrimRight(b.String(), "\n")
}

// ItemsText renders the multi-line item block for the email template: the
// item name, then an indented size / quantity / line-total line.
func ItemsText(items []cart.Item) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s\n  %s | %dx | %s\n",
			it.Name, it.Size, it.Qty, cart.FormatBRL(it.PriceCents*int64(it.Qty)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ChatLink builds the wa.me deep link with the URL-encoded order summary the
// client opens after checkout.
func ChatLink(phone string, items []cart.Item, customer, method string, at time.Time) string {
	q := url.Values{}
	q.Set("text", Summary(items, customer, method, at))
	return "https://wa.me/" + phone + "?" + q.Encode()
}
