package claimform

import (
	"strings"
	"time"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/cli"
)

// FeeRate is the share of the claim amount suggested as processing fee.
const FeeRate = 0.05

// Helper and badge texts shown next to the policy holder field.
const (
	PolicyVerifiedHelper = "Policy verified ✓ You can still edit this field if needed"
	AutoFilledBadge      = "Auto-filled"
)

// Form is the state of a claim draft being edited.
type Form struct {
	values  map[string]string
	touched map[string]bool
	focus   int
	now     func() time.Time
	check   *Validator

	autoFilled    bool
	lookupPending string
	attempted     bool
	submitting    bool
	submitErr     string
}

// New returns an empty form focused on the first field.
func New(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{
		values:  make(map[string]string, len(Fields)),
		touched: make(map[string]bool, len(Fields)),
		now:     now,
		check:   NewValidator(now),
	}
}

// Value returns the current text of a field.
func (f *Form) Value(name string) string { return f.values[name] }

// Values returns a copy of all field values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Focused returns the field with focus.
func (f *Form) Focused() Field { return Fields[f.focus] }

// FocusIndex returns the index of the focused field in Fields.
func (f *Form) FocusIndex() int { return f.focus }

// Set records a user edit of a field.
func (f *Form) Set(name, value string) {
	if f.values[name] == value {
		return
	}
	f.values[name] = value
	f.touched[name] = true
	f.submitErr = ""

	switch name {
	case Holder:
		f.autoFilled = false
	case PolicyNumber:
		f.lookupPending = ""
		if f.autoFilled {
			// The looked-up holder belongs to the old policy.
			f.autoFilled = false
			f.values[Holder] = ""
			f.touched[Holder] = false
		}
	}
}

// Next moves focus forward, wrapping. It returns the policy number to look
// up when leaving the policy field with a well-formed value.
func (f *Form) Next() (lookup string) {
	return f.FocusAt((f.focus + 1) % len(Fields))
}

// Prev moves focus backward, wrapping.
func (f *Form) Prev() (lookup string) {
	return f.FocusAt((f.focus - 1 + len(Fields)) % len(Fields))
}

// FocusAt blurs the current field and focuses field i.
func (f *Form) FocusAt(i int) (lookup string) {
	if i < 0 || i >= len(Fields) || i == f.focus {
		return ""
	}
	lookup = f.blur(Fields[f.focus])
	f.focus = i
	f.focusField(Fields[i])
	return lookup
}

// Blur applies the leave behavior of the focused field without moving focus.
func (f *Form) Blur() (lookup string) {
	return f.blur(Fields[f.focus])
}

func (f *Form) focusField(fd Field) {
	if fd.Kind == Currency {
		f.values[fd.Name] = cli.StripCommas(f.values[fd.Name])
	}
}

func (f *Form) blur(fd Field) (lookup string) {
	raw := f.values[fd.Name]
	if raw != "" {
		f.touched[fd.Name] = true
	}

	switch fd.Kind {
	case Currency:
		n, ok := cli.ParseAmount(raw)
		if !ok || n < 0 {
			break
		}
		if fd.Name == Amount {
			f.values[fd.Name] = cli.FormatGrouped(n)
			f.suggestFee(n)
		} else {
			f.values[fd.Name] = cli.FormatFixed(n)
		}
	case Date:
		f.values[fd.Name] = strings.TrimSpace(raw)
	}

	if fd.Name == PolicyNumber && ValidPolicyNumber(raw) {
		f.lookupPending = raw
		return raw
	}
	return ""
}

// SuggestFee fills an empty processing fee from the current amount,
// regardless of focus.
func (f *Form) SuggestFee() {
	if n, ok := cli.ParseAmount(f.values[Amount]); ok {
		f.suggestFee(n)
	}
}

// suggestFee fills an empty processing fee from the claim amount. A fee the
// user entered is never overwritten.
func (f *Form) suggestFee(amount float64) {
	if strings.TrimSpace(f.values[ProcessingFee]) != "" || amount <= 0 {
		return
	}
	f.values[ProcessingFee] = cli.FormatFixed(amount * FeeRate)
}

// LookupPending returns the policy number awaiting a lookup result.
func (f *Form) LookupPending() string { return f.lookupPending }

// ApplyPolicy records a lookup result for number. Results for a policy
// number the user has since changed are ignored. A nil policy leaves the
// holder as typed and drops the badge.
func (f *Form) ApplyPolicy(number string, p *api.Policy) bool {
	if number == "" || number != f.values[PolicyNumber] {
		return false
	}
	f.lookupPending = ""
	if p == nil {
		f.autoFilled = false
		return false
	}
	f.values[Holder] = p.Holder
	f.touched[Holder] = true
	f.autoFilled = true
	return true
}

// AutoFilled reports whether the holder came from a policy lookup.
func (f *Form) AutoFilled() bool { return f.autoFilled }

// Helper returns the helper text for a field, if any.
func (f *Form) Helper(name string) string {
	if name == Holder && f.autoFilled {
		return PolicyVerifiedHelper
	}
	fd, _ := FieldByName(name)
	return fd.Helper
}

// Errors returns every current validation error, keyed by field.
func (f *Form) Errors() map[string]string {
	return f.check.Validate(f.values)
}

// VisibleErrors returns the errors for fields the user has touched, or all
// errors once a submit was attempted. An auto-filled holder shows the
// verified helper instead of its error; submit stays blocked.
func (f *Form) VisibleErrors() map[string]string {
	errs := f.Errors()
	if errs == nil {
		return nil
	}
	if f.autoFilled {
		delete(errs, Holder)
	}
	if f.attempted {
		return errs
	}
	for name := range errs {
		if !f.touched[name] {
			delete(errs, name)
		}
	}
	return errs
}

// Valid reports whether the draft passes every rule.
func (f *Form) Valid() bool { return len(f.Errors()) == 0 }

// Dirty reports whether any field holds text.
func (f *Form) Dirty() bool {
	for _, v := range f.values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// CanSubmit reports whether the submit action is enabled.
func (f *Form) CanSubmit() bool { return !f.submitting && f.Valid() }

// Submitting reports whether a create request is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// BeginSubmit validates the draft and marks it in flight. It returns false
// when the draft is invalid or already submitting; the attempt still reveals
// every field error.
func (f *Form) BeginSubmit() (api.CreateClaimRequest, bool) {
	f.Blur()
	f.attempted = true
	if !f.CanSubmit() {
		return api.CreateClaimRequest{}, false
	}
	f.submitting = true
	f.submitErr = ""
	return f.Payload(), true
}

// EndSubmit clears the in-flight state. A non-nil err is kept for display
// and the draft is preserved.
func (f *Form) EndSubmit(err error) {
	f.submitting = false
	if err != nil {
		f.submitErr = err.Error()
	}
}

// SubmitError returns the last failed submission message.
func (f *Form) SubmitError() string { return f.submitErr }

// Payload converts the draft to a create request. Amounts lose their
// grouping separators.
func (f *Form) Payload() api.CreateClaimRequest {
	amount, _ := cli.ParseAmount(f.values[Amount])
	fee, _ := cli.ParseAmount(f.values[ProcessingFee])
	return api.CreateClaimRequest{
		Amount:        amount,
		Holder:        strings.TrimSpace(f.values[Holder]),
		PolicyNumber:  strings.TrimSpace(f.values[PolicyNumber]),
		InsuredName:   strings.TrimSpace(f.values[InsuredName]),
		Description:   strings.TrimSpace(f.values[Description]),
		ProcessingFee: fee,
		IncidentDate:  strings.TrimSpace(f.values[IncidentDate]),
	}
}

// Reset clears the draft back to an empty form.
func (f *Form) Reset() {
	*f = *New(f.now)
}
