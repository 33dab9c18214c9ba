package claimform

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/claimsdash/internal/cli"
)

// Validation limits.
const (
	MaxClaimAmount       = 10000
	MinDescriptionLength = 10
	DateRangeMonths      = 6
	DateLayout           = "2006-01-02"
)

var policyNumberPattern = regexp.MustCompile(`^TL-\d{5}$`)

// ValidPolicyNumber reports whether s has the TL-XXXXX shape.
func ValidPolicyNumber(s string) bool {
	return policyNumberPattern.MatchString(s)
}

// input is the validated view of a draft.
type input struct {
	Amount        string `form:"amount" validate:"required,positiveamount,maxamount"`
	ProcessingFee string `form:"processingFee" validate:"required,nonnegative"`
	Holder        string `form:"holder" validate:"required,min=2"`
	PolicyNumber  string `form:"policyNumber" validate:"required,policynumber"`
	InsuredName   string `form:"insuredName" validate:"required,min=2"`
	IncidentDate  string `form:"incidentDate" validate:"required,incidentwindow"`
	Description   string `form:"description" validate:"required,min=10"`
}

var messages = map[string]map[string]string{
	Amount: {
		"required":       "Claim amount is required",
		"positiveamount": "Please enter a valid amount",
		"maxamount":      fmt.Sprintf("Claim amount cannot exceed $%d", MaxClaimAmount),
	},
	ProcessingFee: {
		"required":    "Processing fee is required",
		"nonnegative": "Please enter a valid processing fee",
	},
	Holder: {
		"required": "Policy holder name is required",
		"min":      "Policy holder name must be at least 2 characters",
	},
	PolicyNumber: {
		"required":     "Policy number is required",
		"policynumber": "Policy number must be in format TL-XXXXX",
	},
	InsuredName: {
		"required": "Insured name is required",
		"min":      "Insured name must be at least 2 characters",
	},
	IncidentDate: {
		"required":       "Incident date is required",
		"incidentwindow": fmt.Sprintf("Incident date must be between %d months ago and yesterday", DateRangeMonths),
	},
	Description: {
		"required": "Description is required",
		"min":      fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength),
	},
}

// Validator checks drafts against the claim rules.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator builds a Validator. now supplies the reference time for the
// incident date window; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	mustRegister(val.v, "policynumber", func(fl validator.FieldLevel) bool {
		return ValidPolicyNumber(fl.Field().String())
	})
	mustRegister(val.v, "positiveamount", func(fl validator.FieldLevel) bool {
		n, ok := cli.ParseAmount(fl.Field().String())
		return ok && n > 0
	})
	mustRegister(val.v, "maxamount", func(fl validator.FieldLevel) bool {
		n, ok := cli.ParseAmount(fl.Field().String())
		return !ok || n <= MaxClaimAmount
	})
	mustRegister(val.v, "nonnegative", func(fl validator.FieldLevel) bool {
		n, ok := cli.ParseAmount(fl.Field().String())
		return ok && n >= 0
	})
	mustRegister(val.v, "incidentwindow", func(fl validator.FieldLevel) bool {
		return InIncidentWindow(fl.Field().String(), val.now())
	})
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("claimform: registering %s: %v", tag, err))
	}
}

// IncidentWindow returns the first and last valid incident dates for now,
// as local calendar days.
func IncidentWindow(now time.Time) (earliest, latest time.Time) {
	today := dateOnly(now)
	return dateOnly(now.AddDate(0, -DateRangeMonths, 0)), today.AddDate(0, 0, -1)
}

// InIncidentWindow reports whether the YYYY-MM-DD date s falls in the
// incident window for now, inclusive on both ends.
func InIncidentWindow(s string, now time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return false
	}
	earliest, latest := IncidentWindow(now)
	return !d.Before(earliest) && !d.After(latest)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Validate returns a message per invalid field, or nil when values pass.
func (val *Validator) Validate(values map[string]string) map[string]string {
	in := input{
		Amount:        values[Amount],
		ProcessingFee: values[ProcessingFee],
		Holder:        values[Holder],
		PolicyNumber:  values[PolicyNumber],
		InsuredName:   values[InsuredName],
		IncidentDate:  values[IncidentDate],
		Description:   values[Description],
	}

	err := val.v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out[field] = msg
	}
	return out
}
