package notify

import (
	"html/template"
	"strings"
	texttemplate "text/template"

	"studio-orders/internal/core"
)

// The studio writes to its clients in French.
var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="fr">
<body style="font-family: sans-serif; color: #333;">
  <h2>Merci pour votre commande !</h2>
  <p>Bonjour {{.CustomerName}},</p>
  <p>Nous avons bien reçu votre commande <strong>{{.InvoiceNumber}}</strong> du {{.Date}}.</p>
  <table style="border-collapse: collapse; width: 100%;">
    <thead>
      <tr>
        <th style="text-align: left; border-bottom: 1px solid #ccc; padding: 6px;">Produit</th>
        <th style="text-align: left; border-bottom: 1px solid #ccc; padding: 6px;">Référence</th>
        <th style="text-align: left; border-bottom: 1px solid #ccc; padding: 6px;">Marque</th>
      </tr>
    </thead>
    <tbody>
      {{range .Products}}
      <tr>
        <td style="padding: 6px;">{{.Name}}</td>
        <td style="padding: 6px;">{{.Reference}}</td>
        <td style="padding: 6px;">{{if .Brand}}{{.Brand}}{{else}}Non spécifiée{{end}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <p><strong>Montant total : {{.Total}} €</strong></p>
  <p>{{if .IsPaid}}Votre commande est réglée.{{else}}Le règlement reste à effectuer à la livraison.{{end}}</p>
  <p>À très bientôt,<br>L'équipe du studio</p>
</body>
</html>`))

// summaryTmpl is the plain-text rendition of the confirmation. It doubles as
// the SMS body for clients who left a phone number instead of an email.
var summaryTmpl = texttemplate.Must(texttemplate.New("summary").Parse(`Nouvelle commande reçue !

Client: {{.CustomerName}}
N° Facture: {{.InvoiceNumber}}
Produits:
{{range .Products}}- {{.Name}} ({{.Reference}})
{{end}}
Total: {{.Total}} €

Quand souhaitez-vous que nous vous livrions votre commande ?`))

type confirmationData struct {
	CustomerName  string
	InvoiceNumber string
	Date          string
	Products      []core.LineItem
	Total         string
	IsPaid        bool
}

func renderConfirmation(order *core.Order) (string, error) {
	var b strings.Builder
	err := confirmationTmpl.Execute(&b, confirmationData{
		CustomerName:  order.CustomerName,
		InvoiceNumber: order.InvoiceNumber,
		Date:          order.Date,
		Products:      order.Products,
		Total:         order.TotalAmount.StringFixed(2),
		IsPaid:        order.IsPaid,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderOrderSummary(order *core.Order) (string, error) {
	var b strings.Builder
	err := summaryTmpl.Execute(&b, confirmationData{
		CustomerName:  order.CustomerName,
		InvoiceNumber: order.InvoiceNumber,
		Products:      order.Products,
		Total:         order.TotalAmount.StringFixed(2),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
