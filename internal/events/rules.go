package events

import (
	"fmt"

	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
)

// Directory names the chart accounts the built-in mapping rules post to.
type Directory struct {
	Cash            int
	Bank            int
	AccountsPayable int
	DonationIncome  int
	SevaIncome      int
	CampaignIncome  int
	PrasadamIncome  int
	EventExpense    int
	ProjectExpense  int
	GeneralExpense  int
}

// Rule builds a balanced draft for one event kind.
type Rule func(ev Event, dir Directory) (ledger.Draft, error)

// DefaultRules maps each known event kind to its double entry.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		// Money in: debit the receiving asset, credit the income account.
		KindDonationReceived: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.Cash), hint(ev, "credit", dir.DonationIncome))
		},
		KindCampaignContributionReceived: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.Bank), hint(ev, "credit", dir.CampaignIncome))
		},
		KindPrasadamSaleRecorded: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.Cash), hint(ev, "credit", dir.PrasadamIncome))
		},
		KindEventBookingConfirmed: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.Bank), hint(ev, "credit", dir.SevaIncome))
		},

		// Money out: debit the expense, credit payable or the paying asset.
		KindExpenseApproved: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.GeneralExpense), hint(ev, "credit", dir.AccountsPayable))
		},
		KindProjectExpenseLogged: func(ev Event, dir Directory) (ledger.Draft, error) {
			return transfer(ev, hint(ev, "debit", dir.ProjectExpense), hint(ev, "credit", dir.Bank))
		},
	}
}

// hint returns the account the payload names for a role, or the directory
// default.
func hint(ev Event, role string, fallback int) int {
	if id, ok := ev.Payload.AccountHints[role]; ok {
		return id
	}
	return fallback
}

// transfer builds the two-entry draft common to every rule.
func transfer(ev Event, debitAccount, creditAccount int) (ledger.Draft, error) {
	if !ev.Payload.Amount.IsPositive() {
		return ledger.Draft{}, fmt.Errorf("event %s %s:%s: amount must be positive, got %s",
			ev.Kind, ev.ReferenceType, ev.ReferenceID, ev.Payload.Amount)
	}

	description := ev.Payload.Description
	if description == "" {
		description = fmt.Sprintf("%s %s:%s", ev.Kind, ev.ReferenceType, ev.ReferenceID)
	}

	return ledger.Draft{
		Date:          ev.Payload.Date,
		Description:   description,
		ReferenceType: ev.ReferenceType,
		ReferenceID:   ev.ReferenceID,
		CreatedBy:     "event:" + ev.Kind,
		Entries: []model.Entry{
			{AccountID: debitAccount, Debit: ev.Payload.Amount},
			{AccountID: creditAccount, Credit: ev.Payload.Amount},
		},
	}, nil
}
