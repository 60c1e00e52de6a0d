package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var incomeHeaders = []string{
	"ID Venta",
	"ID",
	"Marca",
	"Desarrollo",
	"Privada",
	"Etapa",
	"Unidad",
	"Folio",
	"Cliente",
	"Referencia STP",
	"Estatus",
	"ID Ingreso",
	"Fecha Ingreso",
	"Fecha Creacion",
	"Monto",
	"Metodo de Pago",
	"Concepto",
	"Banco",
}

// ExportIncomeExcel writes the unified report to an xlsx workbook, one row
// per record, columns in the fixed report order.
func ExportIncomeExcel(rows []IncomeRow, filename string) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("dd/mm/yyyy")})
	if err != nil {
		return err
	}

	// Add headers
	for i, h := range incomeHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, h)
	}

	// Add data
	for i, r := range rows {
		rowNo := i + 2
		values := []interface{}{
			r.SaleID,
			r.DisplayID,
			deref(r.Brand),
			deref(r.Development),
			r.Private,
			r.Stage,
			r.Unit,
			r.Folio,
			r.CustomerName,
			r.STPReference,
			r.Status,
			r.IncomeID,
			nil, // dates set below with style
			nil,
			r.Amount.InexactFloat64(),
			r.PaymentMethod,
			r.Concept,
			r.Bank,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return err
			}
			if v != nil {
				f.SetCellValue(sheetName, cell, v)
			}
		}
		if r.IngressDate != nil {
			cell := fmt.Sprintf("M%d", rowNo)
			f.SetCellValue(sheetName, cell, *r.IngressDate)
			f.SetCellStyle(sheetName, cell, cell, dateStyle)
		}
		if r.CreatedDate != nil {
			cell := fmt.Sprintf("N%d", rowNo)
			f.SetCellValue(sheetName, cell, *r.CreatedDate)
			f.SetCellStyle(sheetName, cell, cell, dateStyle)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return err
	}
	return nil
}

func strPtr(s string) *string { return &s }
