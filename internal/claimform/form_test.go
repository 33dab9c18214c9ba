package claimform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/claimsdash/internal/api"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func validValues() map[string]string {
	return map[string]string{
		Amount:        "1,500.00",
		ProcessingFee: "75.00",
		Holder:        "Jane Doe",
		PolicyNumber:  "TL-12345",
		InsuredName:   "Laptop",
		IncidentDate:  "2025-06-01",
		Description:   "Dropped on the floor at work",
	}
}

func filled(t *testing.T) *Form {
	t.Helper()
	f := New(clock)
	for k, v := range validValues() {
		f.Set(k, v)
	}
	return f
}

func TestValidate_AcceptsValidDraft(t *testing.T) {
	v := NewValidator(clock)
	assert.Nil(t, v.Validate(validValues()))
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"amount empty", Amount, "", "Claim amount is required"},
		{"amount junk", Amount, "abc", "Please enter a valid amount"},
		{"amount zero", Amount, "0", "Please enter a valid amount"},
		{"amount too big", Amount, "10,000.01", "Claim amount cannot exceed $10000"},
		{"fee empty", ProcessingFee, "", "Processing fee is required"},
		{"fee negative", ProcessingFee, "-1", "Please enter a valid processing fee"},
		{"holder empty", Holder, "", "Policy holder name is required"},
		{"holder short", Holder, "J", "Policy holder name must be at least 2 characters"},
		{"policy empty", PolicyNumber, "", "Policy number is required"},
		{"policy shape", PolicyNumber, "TL-1234", "Policy number must be in format TL-XXXXX"},
		{"policy lowercase", PolicyNumber, "tl-12345", "Policy number must be in format TL-XXXXX"},
		{"insured short", InsuredName, "X", "Insured name must be at least 2 characters"},
		{"description short", Description, "too short", "Description must be at least 10 characters"},
		{"date empty", IncidentDate, "", "Incident date is required"},
		{"date today", IncidentDate, "2025-06-15", "Incident date must be between 6 months ago and yesterday"},
		{"date too old", IncidentDate, "2024-12-14", "Incident date must be between 6 months ago and yesterday"},
		{"date garbage", IncidentDate, "06/01/2025", "Incident date must be between 6 months ago and yesterday"},
	}
	v := NewValidator(clock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := validValues()
			vals[tt.field] = tt.value
			errs := v.Validate(vals)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestIncidentWindow_Bounds(t *testing.T) {
	earliest, latest := IncidentWindow(fixedNow)
	assert.Equal(t, "2024-12-15", earliest.Format(DateLayout))
	assert.Equal(t, "2025-06-14", latest.Format(DateLayout))

	assert.True(t, InIncidentWindow("2024-12-15", fixedNow))
	assert.True(t, InIncidentWindow("2025-06-14", fixedNow))
	assert.False(t, InIncidentWindow("2025-06-15", fixedNow))
}

func TestForm_CurrencyFocusAndBlur(t *testing.T) {
	f := New(clock)
	f.Set(Amount, "1500")
	f.Next()
	assert.Equal(t, "1,500.00", f.Value(Amount))
	assert.Equal(t, "75.00", f.Value(ProcessingFee), "empty fee gets 5% of the amount")

	f.Prev()
	assert.Equal(t, "1500.00", f.Value(Amount), "focus strips grouping")

	f.Set(Amount, "2000")
	f.Next()
	assert.Equal(t, "75.00", f.Value(ProcessingFee), "entered fee is never overwritten")

	f.Set(ProcessingFee, "12.5")
	f.Next()
	assert.Equal(t, "12.50", f.Value(ProcessingFee))
}

func TestForm_BlurLeavesJunkAlone(t *testing.T) {
	f := New(clock)
	f.Set(Amount, "12abc")
	f.Next()
	assert.Equal(t, "12abc", f.Value(Amount))
	assert.Empty(t, f.Value(ProcessingFee))
}

func TestForm_PolicyLookup(t *testing.T) {
	f := New(clock)
	f.FocusAt(3)
	require.Equal(t, PolicyNumber, f.Focused().Name)

	f.Set(PolicyNumber, "TL-1")
	assert.Empty(t, f.Next(), "malformed numbers are not looked up")

	f.Prev()
	f.Set(PolicyNumber, "TL-12345")
	lookup := f.Next()
	assert.Equal(t, "TL-12345", lookup)
	assert.Equal(t, "TL-12345", f.LookupPending())

	applied := f.ApplyPolicy("TL-12345", &api.Policy{Number: "TL-12345", Holder: "Jane Doe"})
	assert.True(t, applied)
	assert.Equal(t, "Jane Doe", f.Value(Holder))
	assert.True(t, f.AutoFilled())
	assert.Equal(t, PolicyVerifiedHelper, f.Helper(Holder))
	assert.Empty(t, f.LookupPending())

	f.Set(Holder, "Jane Q. Doe")
	assert.False(t, f.AutoFilled(), "editing the holder drops the badge")
	assert.Empty(t, f.Helper(Holder))
}

func TestForm_StalePolicyResultIgnored(t *testing.T) {
	f := New(clock)
	f.Set(PolicyNumber, "TL-12345")
	f.Set(PolicyNumber, "TL-99999")
	assert.False(t, f.ApplyPolicy("TL-12345", &api.Policy{Holder: "Wrong"}))
	assert.Empty(t, f.Value(Holder))
}

func TestForm_PolicyNotFoundKeepsHolder(t *testing.T) {
	f := New(clock)
	f.Set(Holder, "Typed Name")
	f.Set(PolicyNumber, "TL-12345")
	assert.False(t, f.ApplyPolicy("TL-12345", nil))
	assert.Equal(t, "Typed Name", f.Value(Holder))
	assert.False(t, f.AutoFilled())
}

func TestForm_VisibleErrorsFollowTouch(t *testing.T) {
	f := New(clock)
	assert.Empty(t, f.VisibleErrors())
	assert.False(t, f.Valid())

	f.Set(Holder, "J")
	errs := f.VisibleErrors()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, Holder)

	_, ok := f.BeginSubmit()
	assert.False(t, ok)
	assert.Len(t, f.VisibleErrors(), len(Fields))
}

func TestForm_SubmitLifecycle(t *testing.T) {
	f := filled(t)
	require.True(t, f.Dirty())
	require.True(t, f.CanSubmit(), "errors: %v", f.Errors())

	req, ok := f.BeginSubmit()
	require.True(t, ok)
	assert.Equal(t, api.CreateClaimRequest{
		Amount:        1500,
		Holder:        "Jane Doe",
		PolicyNumber:  "TL-12345",
		InsuredName:   "Laptop",
		Description:   "Dropped on the floor at work",
		ProcessingFee: 75,
		IncidentDate:  "2025-06-01",
	}, req)

	assert.True(t, f.Submitting())
	assert.False(t, f.CanSubmit())
	_, again := f.BeginSubmit()
	assert.False(t, again, "double submit is blocked")

	f.EndSubmit(assert.AnError)
	assert.False(t, f.Submitting())
	assert.Equal(t, assert.AnError.Error(), f.SubmitError())
	assert.Equal(t, "Jane Doe", f.Value(Holder), "draft survives a failed submit")

	f.Reset()
	assert.False(t, f.Dirty())
	assert.Empty(t, f.SubmitError())
}

func TestForm_AutoFilledHolderHidesErrorButBlocksSubmit(t *testing.T) {
	f := filled(t)
	f.Set(PolicyNumber, "TL-54321")
	require.True(t, f.ApplyPolicy("TL-54321", &api.Policy{Holder: ""}))

	_, shown := f.VisibleErrors()[Holder]
	assert.False(t, shown)
	assert.Contains(t, f.Errors(), Holder)
	assert.False(t, f.Valid())

	_, ok := f.BeginSubmit()
	assert.False(t, ok, "an empty looked-up holder is still invalid")
	assert.False(t, f.Submitting())
}

func TestForm_PolicyChangeAfterAutoFillLooksUpAgain(t *testing.T) {
	f := New(clock)
	f.FocusAt(3)
	f.Set(PolicyNumber, "TL-11111")
	require.True(t, f.ApplyPolicy(f.Next(), &api.Policy{Holder: "Alice Smith"}))

	f.Prev()
	f.Set(PolicyNumber, "TL-22222")
	assert.False(t, f.AutoFilled())
	assert.Empty(t, f.Value(Holder), "the old policy's holder is cleared")

	assert.Equal(t, "TL-22222", f.Next())
	require.True(t, f.ApplyPolicy("TL-22222", &api.Policy{Holder: "Bob Jones"}))
	assert.Equal(t, "Bob Jones", f.Value(Holder))
	assert.True(t, f.AutoFilled())
}

func TestForm_ReblurAfterAutoFillLooksUpAgain(t *testing.T) {
	f := New(clock)
	f.FocusAt(3)
	f.Set(PolicyNumber, "TL-11111")
	require.True(t, f.ApplyPolicy(f.Next(), &api.Policy{Holder: "Alice Smith"}))

	f.Prev()
	assert.Equal(t, "TL-11111", f.Next())
	assert.False(t, f.ApplyPolicy("TL-11111", nil))
	assert.False(t, f.AutoFilled(), "no match drops the badge")
	assert.Equal(t, "Alice Smith", f.Value(Holder))
}

func TestForm_SuggestFeeIgnoresFocus(t *testing.T) {
	f := New(clock)
	f.FocusAt(len(Fields) - 1)
	f.Set(Amount, "1,500")
	f.SuggestFee()
	assert.Equal(t, "75.00", f.Value(ProcessingFee))

	f.Set(ProcessingFee, "10")
	f.Set(Amount, "3000")
	f.SuggestFee()
	assert.Equal(t, "10", f.Value(ProcessingFee), "a typed fee is kept")
}

func TestForm_FocusWraps(t *testing.T) {
	f := New(clock)
	f.Prev()
	assert.Equal(t, Description, f.Focused().Name)
	f.Next()
	assert.Equal(t, Amount, f.Focused().Name)
}
