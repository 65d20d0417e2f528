package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/model"
	docx "github.com/fumiama/go-docx"
)

// Renderer deterministically turns a validated form-data mapping into a
// Word document following a fixed section template. Optional
// sub-sections are driven purely by the presence of their anchor field;
// an absent anchor silently skips the section. The only failure mode is
// writing the output file.
type Renderer struct {
	// Now is injectable so identical form data and timestamp produce
	// byte-identical structural content.
	Now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

// RenderToFile renders the contract document and writes it to
// outputPath. Write errors are propagated, never swallowed.
func (r *Renderer) RenderToFile(formData map[string]any, outputPath string) error {
	doc := r.render(formData, r.Now())

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create contract file: %w", err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write contract file: %w", err)
	}
	return nil
}

func (r *Renderer) render(formData map[string]any, now time.Time) *docx.Docx {
	w := docx.New().WithDefaultTheme()
	date := now.Format("02/01/2006")
	gemeente := stringField(formData, "goed_gemeente")
	if gemeente == "" {
		gemeente = "België"
	}

	// Titel
	title := w.AddParagraph()
	title.AddText("ONDERHANDSE VERKOOPOVEREENKOMST").Size("40").Bold()
	title.Justification("center")

	// Datum en plaats
	place := w.AddParagraph()
	place.AddText(fmt.Sprintf("Opgemaakt te %s op %s", gemeente, date))
	place.Justification("center")

	w.AddParagraph()

	// Partijen
	addHeading(w, "Tussen de partijen:", "32")

	addHeading(w, "VERKOPER", "28")
	addLabeledLine(w, "Naam: ", fullName(formData, "verkoper_voornaam", "verkoper_naam"))
	addLabeledLine(w, "Adres: ", stringField(formData, "verkoper_adres"))
	addOptionalLine(w, "Email: ", formData, "verkoper_email")
	addOptionalLine(w, "Telefoon: ", formData, "verkoper_telefoonnummer")

	en := w.AddParagraph()
	en.AddText("En").Italic()

	addHeading(w, "KOPER", "28")
	addLabeledLine(w, "Naam: ", fullName(formData, "koper_voornaam", "koper_naam"))
	addLabeledLine(w, "Adres: ", stringField(formData, "koper_adres"))
	addOptionalLine(w, "Email: ", formData, "koper_email")
	addOptionalLine(w, "Telefoon: ", formData, "koper_telefoonnummer")

	// Het goed
	addHeading(w, "VOORWERP VAN DE OVEREENKOMST", "32")
	addLabeledLine(w, "Adres: ", fmt.Sprintf("%s %s, %s %s",
		stringField(formData, "goed_straat"),
		stringField(formData, "goed_nummer"),
		stringField(formData, "goed_postcode"),
		stringField(formData, "goed_gemeente"),
	))

	if present(formData, "goed_kadastrale_afdeling") {
		kad := w.AddParagraph()
		kad.AddText("Kadastrale gegevens:").Bold()
		addBullet(w, "Afdeling: "+stringField(formData, "goed_kadastrale_afdeling"))
		addBullet(w, "Sectie: "+stringField(formData, "goed_kadastrale_sectie"))
		addBullet(w, "Nummer: "+stringField(formData, "goed_kadastrale_nummer"))
		if present(formData, "goed_kadastrale_oppervlakte") {
			addBullet(w, "Oppervlakte: "+stringField(formData, "goed_kadastrale_oppervlakte"))
		}
		if present(formData, "goed_kadastraal_inkomen_bedrag") {
			addBullet(w, "Kadastraal inkomen: €"+stringField(formData, "goed_kadastraal_inkomen_bedrag"))
		}
	}

	// Prijs
	addHeading(w, "PRIJS", "32")
	addLabeledLine(w, "Koopprijs: ", "€ "+stringFieldDefault(formData, "prijs_totaal", "0"))
	addLabeledLine(w, "Voorschot: ", "€ "+stringFieldDefault(formData, "voorschot_bedrag", "0"))
	if saldo, ok := Balance(formData); ok {
		addLabeledLine(w, "Saldo: ", fmt.Sprintf("€ %.2f", saldo))
	}

	// Certificaten
	addHeading(w, "CERTIFICATEN EN ATTESTEN", "32")

	if present(formData, "epc_code") {
		addCertificate(w, "Energieprestatiecertificaat (EPC)",
			"Code: "+stringField(formData, "epc_code"),
			"Label: "+stringField(formData, "epc_label"),
			"Score: "+stringField(formData, "epc_score"),
			"Datum: "+stringField(formData, "epc_datum"),
		)
	}

	if present(formData, "bodem_attest_referentie") {
		addCertificate(w, "Bodemattest",
			"Referentie: "+stringField(formData, "bodem_attest_referentie"),
			"Datum: "+stringField(formData, "bodem_attest_datum"),
			"Inhoud: "+stringField(formData, "bodem_attest_inhoud"),
		)
	}

	if present(formData, "elektrische_keuring_datum") {
		addCertificate(w, "Elektrische Keuring",
			"Datum: "+stringField(formData, "elektrische_keuring_datum"),
		)
	}

	if present(formData, "stedenbouw_meest_recente_bestemming") {
		vergunning := "Nee"
		if present(formData, "stedenbouw_vergunning_afgeleverd") {
			vergunning = "Ja"
		}
		addCertificate(w, "Stedenbouwkundige Informatie",
			"Bestemming: "+stringField(formData, "stedenbouw_meest_recente_bestemming"),
			"Vergunning afgeleverd: "+vergunning,
		)
	}

	// Algemene bepalingen
	addHeading(w, "ALGEMENE BEPALINGEN", "32")
	addLabeledLine(w, "Staat: ",
		"Het goed wordt verkocht in de huidige staat, zonder waarborg voor zichtbare of verborgen gebreken.")
	addLabeledLine(w, "Eigendomsoverdracht: ",
		"De eigendom gaat over bij het verlijden van de authentieke akte.")
	addLabeledLine(w, "Kosten: ",
		"De kosten van de authentieke akte komen ten laste van de koper.")

	if present(formData, "notaris_verkoper") || present(formData, "notaris_koper") {
		var parts []string
		if present(formData, "notaris_verkoper") {
			parts = append(parts, "Verkoper: "+stringField(formData, "notaris_verkoper")+".")
		}
		if present(formData, "notaris_koper") {
			parts = append(parts, "Koper: "+stringField(formData, "notaris_koper")+".")
		}
		addLabeledLine(w, "Notarissen: ", strings.Join(parts, " "))
	}

	// Handtekeningen
	w.AddParagraph().AddPageBreaks()
	addHeading(w, "HANDTEKENINGEN", "32")

	exemplaren := stringFieldDefault(formData, "aantal_exemplaren", "3")
	w.AddParagraph().AddText(fmt.Sprintf("Opgemaakt in %s exemplaren te %s op %s.", exemplaren, gemeente, date))
	w.AddParagraph()

	table := w.AddTable(4, 2, 0, nil)
	setCell(table, 0, 0, "De Verkoper")
	setCell(table, 0, 1, "De Koper")
	setCell(table, 1, 0, "")
	setCell(table, 1, 1, "")
	setCell(table, 2, 0, fullName(formData, "verkoper_voornaam", "verkoper_naam"))
	setCell(table, 2, 1, fullName(formData, "koper_voornaam", "koper_naam"))
	setCell(table, 3, 0, "Datum: "+date)
	setCell(table, 3, 1, "Datum: "+date)

	// Footer
	w.AddParagraph().AddPageBreaks()
	footer := w.AddParagraph()
	footer.AddText("Dit contract is gegenereerd door Makelaar Contract Generator.").Italic()
	footer.Justification("center")
	footer2 := w.AddParagraph()
	footer2.AddText("Voor officieel gebruik dient dit contract door een notaris geverifieerd te worden.").Italic()
	footer2.Justification("center")

	return w
}

// Balance computes price minus deposit when both fields parse as
// numbers; the second return is false when the balance line must be
// omitted.
func Balance(formData map[string]any) (float64, bool) {
	prijsRaw, ok := formData["prijs_totaal"]
	if !ok || model.IsFalsy(prijsRaw) {
		return 0, false
	}
	voorschotRaw, ok := formData["voorschot_bedrag"]
	if !ok || model.IsFalsy(voorschotRaw) {
		return 0, false
	}

	prijs, prijsOK := model.NumericValue(prijsRaw)
	voorschot, voorschotOK := model.NumericValue(voorschotRaw)
	if !prijsOK || !voorschotOK {
		return 0, false
	}
	return prijs - voorschot, true
}

func addHeading(w *docx.Docx, text, size string) {
	p := w.AddParagraph()
	p.AddText(text).Size(size).Bold()
}

func addLabeledLine(w *docx.Docx, label, value string) {
	p := w.AddParagraph()
	p.AddText(label).Bold()
	p.AddText(value)
}

func addOptionalLine(w *docx.Docx, label string, formData map[string]any, key string) {
	if !present(formData, key) {
		return
	}
	addLabeledLine(w, label, stringField(formData, key))
}

func addBullet(w *docx.Docx, text string) {
	w.AddParagraph().AddText("• " + text)
}

func addCertificate(w *docx.Docx, title string, lines ...string) {
	p := w.AddParagraph()
	p.AddText(title).Bold()
	for _, line := range lines {
		addBullet(w, line)
	}
}

func setCell(table *docx.Table, row, col int, text string) {
	table.TableRows[row].TableCells[col].AddParagraph().AddText(text)
}

// fullName joins the first and last name fields, skipping blanks.
func fullName(formData map[string]any, firstKey, lastKey string) string {
	var parts []string
	if s := stringField(formData, firstKey); s != "" {
		parts = append(parts, s)
	}
	if s := stringField(formData, lastKey); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// present reports whether the field exists with a non-falsy value.
func present(formData map[string]any, key string) bool {
	v, ok := formData[key]
	return ok && !model.IsFalsy(v)
}

// stringField renders a scalar field value as display text. Numbers
// drop insignificant trailing zeros; booleans render as Ja/Nee.
func stringField(formData map[string]any, key string) string {
	v, ok := formData[key]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "Ja"
		}
		return "Nee"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func stringFieldDefault(formData map[string]any, key, fallback string) string {
	if s := stringField(formData, key); s != "" {
		return s
	}
	return fallback
}
