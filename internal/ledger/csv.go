package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/model"
)

// Header is the CSV header for journal.csv. The journal is append-only: a
// posted transaction contributes one row per entry, and a later void adds a
// single marker row referencing the same txn_id. Rows are never rewritten.
const Header = "txn_id,date,account_id,description,debit,credit,reference_type,reference_id,source_key,status,created_by,posted_at"

const (
	numFields    = 12
	dateFormat   = "2006-01-02"
	colTxnID     = 0
	colDate      = 1
	colAcctID    = 2
	colDesc      = 3
	colDebit     = 4
	colCredit    = 5
	colRefType   = 6
	colRefID     = 7
	colSourceKey = 8
	colStatus    = 9
	colCreatedBy = 10
	colPostedAt  = 11
)

// MarshalTransaction converts a posted transaction to CSV rows, one per
// entry. Header fields repeat on every row so each line stands alone.
func MarshalTransaction(tx model.Transaction) [][]string {
	rows := make([][]string, 0, len(tx.Entries))
	for _, entry := range tx.Entries {
		row := make([]string, numFields)
		row[colTxnID] = strconv.FormatInt(tx.ID, 10)
		row[colDate] = tx.Date.Format(dateFormat)
		row[colAcctID] = strconv.Itoa(entry.AccountID)
		row[colDesc] = tx.Description
		if !entry.Debit.IsZero() {
			row[colDebit] = entry.Debit.StringFixed(2)
		}
		if !entry.Credit.IsZero() {
			row[colCredit] = entry.Credit.StringFixed(2)
		}
		row[colRefType] = tx.ReferenceType
		row[colRefID] = tx.ReferenceID
		row[colSourceKey] = tx.SourceKey
		row[colStatus] = string(model.StatusPosted)
		row[colCreatedBy] = tx.CreatedBy
		row[colPostedAt] = tx.PostedAt.UTC().Format(time.RFC3339)
		rows = append(rows, row)
	}
	return rows
}

// MarshalVoidMarker converts a void annotation to its single marker row. The
// row carries no account or amounts; the reason travels in the description
// column and the void time in the posted_at column.
func MarshalVoidMarker(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colTxnID] = strconv.FormatInt(tx.ID, 10)
	row[colDate] = tx.VoidedAt.Format(dateFormat)
	row[colDesc] = tx.VoidReason
	row[colStatus] = string(model.StatusVoid)
	row[colPostedAt] = tx.VoidedAt.UTC().Format(time.RFC3339)
	return row
}

// AppendRows appends pre-marshaled rows to a journal.csv writer (no header).
func AppendRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// WriteJournal writes a full journal.csv (header plus every transaction and
// any void markers) in log order.
func WriteJournal(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tx := range txns {
		for _, row := range MarshalTransaction(tx) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing txn %d: %w", tx.ID, err)
			}
		}
		if tx.Status == model.StatusVoid {
			if err := cw.Write(MarshalVoidMarker(tx)); err != nil {
				return fmt.Errorf("writing void marker %d: %w", tx.ID, err)
			}
		}
	}
	return cw.Error()
}

// ReadJournal reads a full journal.csv and reassembles transactions in log
// order, applying void markers to their targets.
func ReadJournal(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	byID := make(map[int64]int)
	var txns []model.Transaction
	for i, rec := range records[1:] {
		rowNum := i + 2
		txID, err := strconv.ParseInt(rec[colTxnID], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing txn_id %q: %w", rowNum, rec[colTxnID], err)
		}

		switch model.TransactionStatus(rec[colStatus]) {
		case model.StatusPosted:
			entry, err := unmarshalEntry(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			if idx, seen := byID[txID]; seen {
				txns[idx].Entries = append(txns[idx].Entries, entry)
				continue
			}
			tx, err := unmarshalHeader(txID, rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			tx.Entries = []model.Entry{entry}
			byID[txID] = len(txns)
			txns = append(txns, tx)

		case model.StatusVoid:
			idx, seen := byID[txID]
			if !seen {
				return nil, fmt.Errorf("row %d: void marker for unknown txn %d", rowNum, txID)
			}
			voidedAt, err := time.Parse(time.RFC3339, rec[colPostedAt])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing void time %q: %w", rowNum, rec[colPostedAt], err)
			}
			txns[idx].Status = model.StatusVoid
			txns[idx].VoidReason = rec[colDesc]
			txns[idx].VoidedAt = voidedAt

		default:
			return nil, fmt.Errorf("row %d: unexpected status %q", rowNum, rec[colStatus])
		}
	}
	return txns, nil
}

func unmarshalHeader(txID int64, rec []string) (model.Transaction, error) {
	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}
	postedAt, err := time.Parse(time.RFC3339, rec[colPostedAt])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing posted_at %q: %w", rec[colPostedAt], err)
	}
	return model.Transaction{
		ID:            txID,
		Date:          date,
		Description:   rec[colDesc],
		ReferenceType: rec[colRefType],
		ReferenceID:   rec[colRefID],
		SourceKey:     rec[colSourceKey],
		Status:        model.StatusPosted,
		CreatedBy:     rec[colCreatedBy],
		PostedAt:      postedAt,
	}, nil
}

func unmarshalEntry(rec []string) (model.Entry, error) {
	accountID, err := strconv.Atoi(rec[colAcctID])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing account_id %q: %w", rec[colAcctID], err)
	}

	var debit, credit decimal.Decimal
	if rec[colDebit] != "" {
		debit, err = decimal.NewFromString(rec[colDebit])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing debit %q: %w", rec[colDebit], err)
		}
	}
	if rec[colCredit] != "" {
		credit, err = decimal.NewFromString(rec[colCredit])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing credit %q: %w", rec[colCredit], err)
		}
	}
	return model.Entry{AccountID: accountID, Debit: debit, Credit: credit}, nil
}
