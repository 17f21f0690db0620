package domain

import (
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/pricing"
	"github.com/shopspring/decimal"
)

// SubmissionItem is one frozen cart line as it goes over the wire to the
// order collaborator.
type SubmissionItem struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderSubmission is fully owned by one pipeline invocation: items and
// pricing are captured once at submission time and never share state with
// the live cart.
type OrderSubmission struct {
	OrderNumber string           `json:"order_number"`
	OwnerID     string           `json:"owner_id"`
	Items       []SubmissionItem `json:"items"`
	Customer    CustomerInfo     `json:"customer"`
	Pricing     pricing.Quote    `json:"pricing"`
	CapturedAt  time.Time        `json:"captured_at"`
}

// SubmissionResult is the collaborator's answer. A server-assigned order
// number, when present, is authoritative over the client-generated one.
type SubmissionResult struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"order_number,omitempty"`
	Error       string `json:"error,omitempty"`
}
