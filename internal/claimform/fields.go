// Package claimform holds the create-claim draft: its fields, validation
// rules, and the focus and blur behaviors of each field kind.
package claimform

// Kind is the input behavior of a field.
type Kind int

const (
	// Text is a single-line free text field.
	Text Kind = iota
	// Currency strips grouping on focus and normalizes to two decimals on blur.
	Currency
	// TextArea is a multi-line free text field.
	TextArea
	// Date holds a YYYY-MM-DD calendar date.
	Date
)

// Field names, matching the request payload keys.
const (
	Amount        = "amount"
	ProcessingFee = "processingFee"
	Holder        = "holder"
	PolicyNumber  = "policyNumber"
	InsuredName   = "insuredName"
	IncidentDate  = "incidentDate"
	Description   = "description"
)

// Field describes one input of the form.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Placeholder string
	Helper      string
}

// Fields lists the form inputs in focus order.
var Fields = []Field{
	{Name: Amount, Label: "Claim Amount ($)", Kind: Currency, Placeholder: "0.00"},
	{Name: ProcessingFee, Label: "Processing Fee ($)", Kind: Currency, Placeholder: "0.00", Helper: "Auto-calculated as 5% of claim amount"},
	{Name: Holder, Label: "Policy Holder Name", Kind: Text, Placeholder: "Enter policy holder name"},
	{Name: PolicyNumber, Label: "Policy Number", Kind: Text, Placeholder: "TL-XXXXX"},
	{Name: InsuredName, Label: "Insured Item Name", Kind: Text, Placeholder: "Enter insured item name"},
	{Name: IncidentDate, Label: "Incident Date", Kind: Date, Placeholder: "YYYY-MM-DD"},
	{Name: Description, Label: "Description", Kind: TextArea, Placeholder: "Describe the incident and claim details...", Helper: "10 minimum characters"},
}

// FieldByName looks up a field.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
