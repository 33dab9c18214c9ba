// Package claim defines the insurance claim domain types and their display formatting.
package claim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/claimsdash/internal/cli"
)

// Claim is a single insurance claim as served by the claims API.
type Claim struct {
	ID            int64   `json:"id"`
	Number        string  `json:"number"`
	IncidentDate  string  `json:"incidentDate"`
	CreatedAt     string  `json:"createdAt"`
	Amount        Decimal `json:"amount"`
	ProcessingFee Decimal `json:"processingFee"`
	Holder        string  `json:"holder"`
	PolicyNumber  string  `json:"policyNumber"`
	InsuredName   string  `json:"insuredName"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
}

// wireClaim mirrors Claim for decoding, accepting the legacy insuredItem
// field and numeric or string ids.
type wireClaim struct {
	ID            json.RawMessage `json:"id"`
	Number        string          `json:"number"`
	IncidentDate  string          `json:"incidentDate"`
	CreatedAt     string          `json:"createdAt"`
	Amount        Decimal         `json:"amount"`
	ProcessingFee Decimal         `json:"processingFee"`
	Holder        string          `json:"holder"`
	PolicyNumber  string          `json:"policyNumber"`
	InsuredName   string          `json:"insuredName"`
	InsuredItem   string          `json:"insuredItem"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
}

// UnmarshalJSON decodes a claim, tolerating the field variations seen in
// claim fixtures.
func (c *Claim) UnmarshalJSON(data []byte) error {
	var w wireClaim
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return fmt.Errorf("claim: decoding id: %w", err)
	}
	*c = Claim{
		ID:            id,
		Number:        w.Number,
		IncidentDate:  w.IncidentDate,
		CreatedAt:     w.CreatedAt,
		Amount:        w.Amount,
		ProcessingFee: w.ProcessingFee,
		Holder:        w.Holder,
		PolicyNumber:  w.PolicyNumber,
		InsuredName:   w.InsuredName,
		Description:   w.Description,
		Status:        w.Status,
	}
	if c.InsuredName == "" {
		c.InsuredName = w.InsuredItem
	}
	return nil
}

func decodeID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// Decimal is a monetary amount kept in its decimal string form. It decodes
// from either a JSON string or a JSON number.
type Decimal string

// UnmarshalJSON accepts "12.50", 12.5, or null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*d = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("claim: amount %s is neither string nor number", data)
	}
	*d = Decimal(n.String())
	return nil
}

// Float parses the amount, returning 0 when it is empty or malformed.
func (d Decimal) Float() float64 {
	v, _ := cli.ParseAmount(string(d))
	return v
}

// Total returns amount plus processing fee.
func (c Claim) Total() float64 {
	return c.Amount.Float() + c.ProcessingFee.Float()
}

// Incident returns the parsed incident date, or the zero time.
func (c Claim) Incident() time.Time {
	return ParseTime(c.IncidentDate)
}

// Created returns the parsed creation timestamp, or the zero time.
func (c Claim) Created() time.Time {
	return ParseTime(c.CreatedAt)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses the ISO-8601 variants the claims API emits. Dates
// without a zone are read as local time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormattedClaim is a Claim with its display strings precomputed.
type FormattedClaim struct {
	Claim

	FormattedClaimAmount   string `json:"formattedClaimAmount"`
	FormattedProcessingFee string `json:"formattedProcessingFee"`
	FormattedTotalAmount   string `json:"formattedTotalAmount"`
	FormattedIncidentDate  string `json:"formattedIncidentDate"`
	FormattedCreatedDate   string `json:"formattedCreatedDate"`
}

// Format derives the display fields of c relative to now.
func Format(c Claim, now time.Time) FormattedClaim {
	return FormattedClaim{
		Claim:                  c,
		FormattedClaimAmount:   cli.FormatCurrency(string(c.Amount)),
		FormattedProcessingFee: cli.FormatCurrency(string(c.ProcessingFee)),
		FormattedTotalAmount:   cli.FormatUSD(c.Total()),
		FormattedIncidentDate:  cli.FormatRelative(c.Incident(), now),
		FormattedCreatedDate:   cli.FormatRelative(c.Created(), now),
	}
}

// FormatAll formats every claim in order.
func FormatAll(claims []Claim, now time.Time) []FormattedClaim {
	out := make([]FormattedClaim, len(claims))
	for i, c := range claims {
		out[i] = Format(c, now)
	}
	return out
}
