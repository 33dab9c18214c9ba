package api

import "encoding/json"

// CreateClaimRequest is the POST /claims body. Amounts are sent as numbers.
type CreateClaimRequest struct {
	Amount        float64 `json:"amount"`
	Holder        string  `json:"holder"`
	PolicyNumber  string  `json:"policyNumber"`
	InsuredName   string  `json:"insuredName"`
	Description   string  `json:"description"`
	ProcessingFee float64 `json:"processingFee"`
	IncidentDate  string  `json:"incidentDate"`
}

// Policy is an insurance policy as returned by GET /policies.
type Policy struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Number string          `json:"number"`
	Holder string          `json:"holder"`
}
