// Package export writes contact lists to spreadsheet files for handoff to
// outreach tools that import XLSX.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// contactHeader is the column order of the exported sheet.
var contactHeader = []string{
	"Name", "Title", "Company", "Email", "Certainty", "Email Source",
	"Verified", "LinkedIn", "Source",
}

// WriteContactsXLSX writes persons to an XLSX file with one Contacts sheet.
func WriteContactsXLSX(path string, persons []model.Person) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range contactHeader {
		header.AddCell().SetString(h)
	}

	for _, p := range persons {
		row := sheet.AddRow()
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(p.Company)
		row.AddCell().SetString(p.Email)
		row.AddCell().SetInt(p.EmailCertainty)
		row.AddCell().SetString(p.EmailSource)
		row.AddCell().SetBool(p.EmailVerified)
		row.AddCell().SetString(p.LinkedIn)
		row.AddCell().SetString(string(p.Source))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
