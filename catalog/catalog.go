// Package catalog is the static registry of known contract fields and
// document types: which document supplies which fields, and what is
// mandatory for a contract to be valid. It is read-only configuration
// consulted by the parser registry and the validation engine.
package catalog

// DocumentType describes one entry of the closed document-type set.
type DocumentType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// DocumentTypes lists the closed set of supported document types, in
// the order they are presented to clients.
var DocumentTypes = []DocumentType{
	{
		ID:          "epc",
		Name:        "EPC (Energieprestatiecertificaat)",
		Required:    true,
		Description: "Energieprestatiecertificaat met label en score",
	},
	{
		ID:          "bodemattest",
		Name:        "Bodemattest",
		Required:    true,
		Description: "OVAM bodemattest voor bodemverontreiniging",
	},
	{
		ID:          "vip",
		Name:        "VIP-dossier (Stedenbouw)",
		Required:    true,
		Description: "Stedenbouwkundige informatie en vergunningen",
	},
	{
		ID:          "kadaster",
		Name:        "Kadastrale legger en plan",
		Required:    true,
		Description: "Kadastrale gegevens, sectie, nummer, oppervlakte",
	},
	{
		ID:          "eigendomstitel",
		Name:        "Eigendomstitel",
		Required:    true,
		Description: "Notariële akte met eigendomsgegevens",
	},
	{
		ID:          "elektrisch",
		Name:        "Elektrische keuring",
		Required:    true,
		Description: "Keuringsattest elektrische installatie",
	},
	{
		ID:          "stookolie",
		Name:        "Keuringattest stookolietank",
		Required:    false,
		Description: "Attest voor stookolietank indien aanwezig",
	},
	{
		ID:          "asbestattest",
		Name:        "Asbestattest",
		Required:    false,
		Description: "Asbestattest voor gebouwen van voor 2001",
	},
}

// documentFields maps a document type to the extracted fields its
// parser is expected to populate. Types without an entry have no
// per-document requirements.
var documentFields = map[string][]string{
	"epc":         {"epc_code", "epc_datum"},
	"bodemattest": {"bodem_attest_referentie", "bodem_attest_datum"},
	"kadaster":    {"goed_kadastrale_afdeling", "goed_kadastrale_sectie"},
	"vip":         {"stedenbouw_meest_recente_bestemming"},
	"elektrisch":  {"elektrische_keuring_datum"},
}

// RequiredField pairs a mandatory top-level contract field with its
// human-readable label used in validation messages.
type RequiredField struct {
	Name  string
	Label string
}

// RequiredContractFields is the fixed set of mandatory top-level
// contract fields, independent of any document.
var RequiredContractFields = []RequiredField{
	{"verkoper_naam", "Naam verkoper"},
	{"verkoper_voornaam", "Voornaam verkoper"},
	{"verkoper_adres", "Adres verkoper"},
	{"koper_naam", "Naam koper"},
	{"koper_voornaam", "Voornaam koper"},
	{"koper_adres", "Adres koper"},
	{"goed_straat", "Straat van het goed"},
	{"goed_nummer", "Huisnummer"},
	{"goed_postcode", "Postcode"},
	{"goed_gemeente", "Gemeente"},
	{"prijs_totaal", "Totale koopprijs"},
	{"voorschot_bedrag", "Voorschot/Waarborg bedrag"},
}

// EmailFields are the optional fields checked for a minimal email
// syntax (must contain an @; intentionally not full RFC validation).
var EmailFields = []string{"verkoper_email", "koper_email"}

// IsKnownType reports whether id belongs to the closed document-type set.
func IsKnownType(id string) bool {
	for _, dt := range DocumentTypes {
		if dt.ID == id {
			return true
		}
	}
	return false
}

// RequiredDocumentTypes returns the ids of all mandatory document types.
func RequiredDocumentTypes() []string {
	var ids []string
	for _, dt := range DocumentTypes {
		if dt.Required {
			ids = append(ids, dt.ID)
		}
	}
	return ids
}

// RequiredDocumentFields returns the fields the parser for the given
// type must populate; nil when the type declares none.
func RequiredDocumentFields(docType string) []string {
	return documentFields[docType]
}
