// Package export builds the spreadsheet the studio hands to its supplier.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"studio-orders/internal/core"
)

const sheetName = "Produits commandés"

// Workbook is an export result: the xlsx bytes plus the suggested filename.
type Workbook struct {
	Filename string
	Data     []byte
}

// OrderProducts renders the line items of the given orders into one sheet,
// one row per product occurrence. The filename carries the invoice number
// for a single order and the order count otherwise.
func OrderProducts(orders []core.Order) (*Workbook, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Nom du produit", "Code/Référence", "Marque des parfums", "N° de facture"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, o := range orders {
		for _, p := range o.Products {
			brand := p.Brand
			if brand == "" {
				brand = "Non spécifiée"
			}
			values := []string{p.Name, p.Reference, brand, o.InvoiceNumber}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return nil, fmt.Errorf("write row %d: %w", row, err)
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("produits-export-%d-commandes.xlsx", len(orders))
	if len(orders) == 1 {
		filename = fmt.Sprintf("produits-%s.xlsx", orders[0].InvoiceNumber)
	}
	return &Workbook{Filename: filename, Data: buf.Bytes()}, nil
}
