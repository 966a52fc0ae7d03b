package models

// Service is the normalized, internal form of a payment service entry
// served by the catalog.
//
// All raw records coming from the automation source are mapped into this
// structure first; nothing downstream of the normalizer sees raw input.
// Every field is always non-empty.
type Service struct {
	ServiceName   string `json:"service_name"`   // display title
	Category      string `json:"category"`       // display title, e.g. "Government"
	PaybillNumber string `json:"paybill_number"` // "N/A" when unknown
	AccountFormat string `json:"account_format"` // what to enter as the account number
	Cost          string `json:"cost"`           // free text, not a parsed amount
	Requirements  string `json:"requirements"`
	ProcessSteps  string `json:"process_steps"`
	SourceURL     string `json:"source_url"` // "#" when no link is available
}

// Sentinel values used when a raw record does not carry a field.
const (
	UnknownServiceName  = "Unknown Service"
	DefaultCategory     = "General"
	UnknownPaybill      = "N/A"
	DefaultAccount      = "Account No"
	DefaultCost         = "Standard Rates"
	NoRequirements      = "No specific requirements"
	DefaultProcessSteps = "Check official website"
	NoSourceURL         = "#"
)
