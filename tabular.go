package ppsnap

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Semantic fields a tabular export column can map to.
const (
	fieldName     = "name"
	fieldTicker   = "ticker"
	fieldQuantity = "quantity"
	fieldPrice    = "price"
	fieldCost     = "cost"
	fieldValue    = "value"
	fieldGainAbs  = "gain_abs"
	fieldGainPct  = "gain_pct"
	fieldCurrency = "currency"
	fieldType     = "type"
	fieldAmount   = "amount"
	fieldDate     = "date"
)

// DetectError reports raw tabular text in which no usable delimiter and
// header combination was found. It fails the whole parse.
type DetectError struct {
	Reason string
}

func (e *DetectError) Error() string {
	return fmt.Sprintf("cannot detect tabular layout: %s", e.Reason)
}

type vocabEntry struct {
	field string
	de    bool
	en    bool
}

// headerVocabulary maps normalized header cells to semantic fields, with the
// language(s) each spelling belongs to. The spellings cover the German and
// English column names Portfolio Performance uses in its holdings and
// transaction exports.
var headerVocabulary = map[string]vocabEntry{
	"wertpapier":     {fieldName, true, false},
	"wertpapiername": {fieldName, true, false},
	"name":           {fieldName, false, true},
	"security":       {fieldName, false, true},
	"security name":  {fieldName, false, true},
	"instrument":     {fieldName, false, true},

	"ticker-symbol": {fieldTicker, true, false},
	"wkn":           {fieldTicker, true, false},
	"ticker":        {fieldTicker, false, true},
	"symbol":        {fieldTicker, true, true},
	"isin":          {fieldTicker, true, true},

	"bestand":  {fieldQuantity, true, false},
	"stück":    {fieldQuantity, true, false},
	"stueck":   {fieldQuantity, true, false},
	"menge":    {fieldQuantity, true, false},
	"anzahl":   {fieldQuantity, true, false},
	"quantity": {fieldQuantity, false, true},
	"shares":   {fieldQuantity, false, true},

	"kurs":         {fieldPrice, true, false},
	"preis":        {fieldPrice, true, false},
	"price":        {fieldPrice, false, true},
	"quote":        {fieldPrice, false, true},
	"latest quote": {fieldPrice, false, true},

	"einstandspreis": {fieldCost, true, false},
	"einstand":       {fieldCost, true, false},
	"einstandswert":  {fieldCost, true, false},
	"kaufwert":       {fieldCost, true, false},
	"investiert":     {fieldCost, true, false},
	"cost":           {fieldCost, false, true},
	"cost basis":     {fieldCost, false, true},
	"purchase value": {fieldCost, false, true},

	"marktwert":      {fieldValue, true, false},
	"wert":           {fieldValue, true, false},
	"aktueller wert": {fieldValue, true, false},
	"positionswert":  {fieldValue, true, false},
	"market value":   {fieldValue, false, true},
	"value":          {fieldValue, false, true},

	"gewinn/verlust": {fieldGainAbs, true, false},
	"gewinn":         {fieldGainAbs, true, false},
	"verlust":        {fieldGainAbs, true, false},
	"gain":           {fieldGainAbs, false, true},
	"profit":         {fieldGainAbs, false, true},
	"p&l":            {fieldGainAbs, false, true},

	"gewinn/verlust %": {fieldGainPct, true, false},
	"gewinn %":         {fieldGainPct, true, false},
	"verlust %":        {fieldGainPct, true, false},
	"gain %":           {fieldGainPct, false, true},
	"performance %":    {fieldGainPct, false, true},
	"p&l %":            {fieldGainPct, false, true},

	"währung":  {fieldCurrency, true, false},
	"waehrung": {fieldCurrency, true, false},
	"currency": {fieldCurrency, false, true},

	"typ":  {fieldType, true, false},
	"art":  {fieldType, true, false},
	"type": {fieldType, false, true},

	"betrag":       {fieldAmount, true, false},
	"bruttobetrag": {fieldAmount, true, false},
	"amount":       {fieldAmount, false, true},
	"gross amount": {fieldAmount, false, true},

	"datum": {fieldDate, true, false},
	"date":  {fieldDate, false, true},
}

// sheetShape classifies a tabular export; it decides which parser runs.
type sheetShape int

const (
	sheetHoldings sheetShape = iota
	sheetTransactions
)

// detection is the outcome of delimiter and header inference over a tabular
// export.
type detection struct {
	delimiter rune
	lang      string         // "de" or "en"
	fields    map[string]int // semantic field -> column index
	shape     sheetShape
}

// delimiterCandidates in preference order; ties keep the earlier candidate.
var delimiterCandidates = []rune{',', ';', '\t'}

// detectTabular infers the field delimiter and the column meaning of a raw
// tabular export. The candidate producing the most header cells found in the
// vocabulary wins. Detection over the same bytes is deterministic: scores
// and the candidate preference order fully decide the outcome.
func detectTabular(raw string) (*detection, error) {
	header := headerLine(raw)
	if header == "" {
		return nil, &DetectError{Reason: "no header line"}
	}

	best := -1
	var bestDet *detection
	for _, delim := range delimiterCandidates {
		cells, err := splitHeader(header, delim)
		if err != nil {
			continue
		}
		fields, deVotes, enVotes := mapHeader(cells)
		if len(fields) <= best {
			continue
		}
		lang := "en"
		if deVotes > enVotes {
			lang = "de"
		}
		best = len(fields)
		bestDet = &detection{delimiter: delim, lang: lang, fields: fields}
	}
	if bestDet == nil || best == 0 {
		return nil, &DetectError{Reason: fmt.Sprintf("no known column in header %q", header)}
	}

	// A transaction-type column makes the sheet transaction-shaped.
	if _, ok := bestDet.fields[fieldType]; ok {
		bestDet.shape = sheetTransactions
		if !bestDet.has(fieldQuantity) || !bestDet.has(fieldAmount) {
			return nil, &DetectError{Reason: "transaction sheet misses quantity or amount column"}
		}
		return bestDet, nil
	}
	bestDet.shape = sheetHoldings
	if !bestDet.has(fieldName) || !bestDet.has(fieldQuantity) {
		return nil, &DetectError{Reason: "holdings sheet misses name or quantity column"}
	}
	return bestDet, nil
}

func (d *detection) has(field string) bool {
	_, ok := d.fields[field]
	return ok
}

// cell returns the row value of a semantic field, "" when unmapped or the
// row is short.
func (d *detection) cell(row []string, field string) string {
	idx, ok := d.fields[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func headerLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSuffix(line, "\r")
		}
	}
	return ""
}

func splitHeader(header string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(header))
	r.Comma = delim
	r.LazyQuotes = true
	return r.Read()
}

// mapHeader maps each semantic field to the first matching column, counting
// German and English spellings on the way.
func mapHeader(cells []string) (fields map[string]int, deVotes, enVotes int) {
	fields = make(map[string]int)
	for i, cell := range cells {
		entry, ok := headerVocabulary[normHeader(cell)]
		if !ok {
			continue
		}
		if entry.de {
			deVotes++
		}
		if entry.en {
			enVotes++
		}
		if _, taken := fields[entry.field]; !taken {
			fields[entry.field] = i
		}
	}
	return fields, deVotes, enVotes
}

func normHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
