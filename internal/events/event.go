package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event kinds emitted by the surrounding modules.
const (
	KindDonationReceived             = "DonationReceived"
	KindExpenseApproved              = "ExpenseApproved"
	KindProjectExpenseLogged         = "ProjectExpenseLogged"
	KindCampaignContributionReceived = "CampaignContributionReceived"
	KindPrasadamSaleRecorded         = "PrasadamSaleRecorded"
	KindEventBookingConfirmed        = "EventBookingConfirmed"
)

// Event is the envelope a feature module hands the ledger whenever a
// financially relevant action occurs. (ReferenceType, ReferenceID,
// EventVersion) identify the source action; retried or duplicate deliveries
// carry the same triple.
type Event struct {
	ID            uuid.UUID `json:"id,omitempty"`
	Kind          string    `json:"kind"`
	ReferenceType string    `json:"referenceType"`
	ReferenceID   string    `json:"referenceId"`
	EventVersion  int       `json:"eventVersion"`
	Payload       Payload   `json:"payload"`
}

// Payload carries the financial facts of the source action. AccountHints may
// override the mapping rule's default accounts by role ("debit", "credit").
type Payload struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date,omitempty"`
	Description  string          `json:"description,omitempty"`
	AccountHints map[string]int  `json:"accountHints,omitempty"`
}
