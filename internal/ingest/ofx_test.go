package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1.25
<FITID>2024012001
<NAME>INTEREST PAYMENT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestFromOFX(t *testing.T) {
	transactions, err := FromOFX(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	debit := transactions[0]
	assert.Equal(t, "2024011501", debit.ID)
	assert.Equal(t, "STARBUCKS STORE #1234", debit.Description)
	assert.Equal(t, -25.50, debit.Amount)
	assert.Equal(t, model.NewDate(2024, time.January, 15), debit.Date)
	assert.Equal(t, "1234567890", debit.AccountID)
	assert.True(t, debit.IsSpending())

	interest := transactions[1]
	assert.Equal(t, 1.25, interest.Amount)
	assert.Equal(t, "Income", interest.Category)
	assert.False(t, interest.IsSpending())
}

func TestFromOFX_MissingMerchantFailsBatch(t *testing.T) {
	// Second record carries an empty NAME and no PAYEE block.
	unlabeled := strings.Replace(sampleBankOFX, "<NAME>INTEREST PAYMENT", "<NAME>", 1)

	_, err := FromOFX(context.Background(), strings.NewReader(unlabeled))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedTransaction)
	assert.Contains(t, err.Error(), "2024012001")
}

func TestFromOFX_InvalidInput(t *testing.T) {
	_, err := FromOFX(context.Background(), strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func TestFromOFX_FeedsAnalyticsPipeline(t *testing.T) {
	transactions, err := FromOFX(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	for _, tx := range transactions {
		require.NoError(t, tx.Validate())
	}
}

func TestPreprocessOFX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mixed-case severity is uppercased",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "leading whitespace trimmed",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "missing closing bracket repaired",
			input: "<STMTTRN",
			want:  "<STMTTRN>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preprocessOFX(tt.input))
		})
	}
}
