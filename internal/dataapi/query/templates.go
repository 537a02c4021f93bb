package query

import "strings"

// TemplateKind selects one of the fixed query templates.
type TemplateKind int

const (
	// Exists checks whether any document matches the filter clause.
	Exists TemplateKind = iota
	// Data fetches documents shaped by the projection template.
	Data
	// Count counts the documents matching the filter clause.
	Count
	// LatestDate looks up the most recent date for which a given metric is defined.
	LatestDate
)

const (
	existsTemplate = `SELECT TOP 1 VALUE (1) FROM c WHERE ${clause} ${ordering}`
	dataTemplate   = `SELECT VALUE ${template} FROM c WHERE ${clause} ${ordering}`
	countTemplate  = `SELECT VALUE COUNT(1) FROM c WHERE ${clause}`
	latestTemplate = `SELECT TOP 1 {'date': c.date} FROM c WHERE ${clause} AND IS_DEFINED(c.${latestBy}) ${ordering}`
)

// Substitutions holds the text fragments substituted into a template. Kinds that
// do not reference a given fragment ignore it.
type Substitutions struct {
	Template string
	Clause   string
	Ordering string
	LatestBy string
}

// Render produces the query text for the given template kind. It is pure text
// substitution: no validation of the clause fragment is performed here, malformed
// fragments surface as store-side query errors.
func Render(kind TemplateKind, subs Substitutions) string {
	replacer := strings.NewReplacer(
		"${template}", subs.Template,
		"${clause}", subs.Clause,
		"${ordering}", subs.Ordering,
		"${latestBy}", subs.LatestBy,
	)

	switch kind {
	case Exists:
		return replacer.Replace(existsTemplate)
	case Data:
		return replacer.Replace(dataTemplate)
	case Count:
		return replacer.Replace(countTemplate)
	case LatestDate:
		return replacer.Replace(latestTemplate)
	default:
		return ""
	}
}
