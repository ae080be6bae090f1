package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandir-dev/mandir/internal/model"
)

func sampleTransaction() model.Transaction {
	return model.Transaction{
		ID:            1,
		Date:          date(2025, 1, 15),
		Description:   "Cash donation",
		ReferenceType: "Donation",
		ReferenceID:   "D001",
		SourceKey:     "Donation:D001:v1",
		Status:        model.StatusPosted,
		CreatedBy:     "clerk",
		PostedAt:      time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		Entries: []model.Entry{
			{AccountID: 1010, Debit: dec("1000")},
			{AccountID: 4010, Credit: dec("1000")},
		},
	}
}

func TestMarshalTransaction_OneRowPerEntry(t *testing.T) {
	rows := MarshalTransaction(sampleTransaction())
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0][colTxnID])
	assert.Equal(t, "2025-01-15", rows[0][colDate])
	assert.Equal(t, "1010", rows[0][colAcctID])
	assert.Equal(t, "1000.00", rows[0][colDebit])
	assert.Equal(t, "", rows[0][colCredit])
	assert.Equal(t, "Donation:D001:v1", rows[0][colSourceKey])
	assert.Equal(t, "posted", rows[0][colStatus])

	assert.Equal(t, "4010", rows[1][colAcctID])
	assert.Equal(t, "", rows[1][colDebit])
	assert.Equal(t, "1000.00", rows[1][colCredit])
}

func TestWriteReadJournal_RoundTrip(t *testing.T) {
	voided := sampleTransaction()
	voided.ID = 2
	voided.SourceKey = ""
	voided.Status = model.StatusVoid
	voided.VoidReason = "duplicate entry"
	voided.VoidedAt = time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteJournal(&buf, []model.Transaction{sampleTransaction(), voided}))

	txns, err := ReadJournal(&buf)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	first := txns[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, model.StatusPosted, first.Status)
	assert.Equal(t, "Donation:D001:v1", first.SourceKey)
	require.Len(t, first.Entries, 2)
	assert.True(t, first.Entries[0].Debit.Equal(dec("1000")))
	assert.True(t, first.Entries[1].Credit.Equal(dec("1000")))

	second := txns[1]
	assert.Equal(t, model.StatusVoid, second.Status)
	assert.Equal(t, "duplicate entry", second.VoidReason)
	assert.True(t, second.VoidedAt.Equal(time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)))
	// The void marker never erases the original entries.
	require.Len(t, second.Entries, 2)
}

func TestReadJournal_VoidMarkerForUnknownTxn(t *testing.T) {
	marker := MarshalVoidMarker(model.Transaction{
		ID:         9,
		VoidReason: "orphan",
		VoidedAt:   time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
	})

	in := Header + "\n" + strings.Join(marker, ",") + "\n"
	_, err := ReadJournal(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown txn")
}

func TestReadJournal_Empty(t *testing.T) {
	txns, err := ReadJournal(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestReadJournal_BadStatus(t *testing.T) {
	rows := MarshalTransaction(sampleTransaction())
	rows[0][colStatus] = "pending"

	var buf bytes.Buffer
	buf.WriteString(Header + "\n")
	require.NoError(t, AppendRows(&buf, rows))

	_, err := ReadJournal(&buf)
	require.Error(t, err)
}
