package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files: leading
// whitespace, mixed-case SEVERITY values, and SGML-style tags missing their
// closing angle bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// FromOFX parses an OFX/QFX statement file and normalizes its transactions.
// OFX already uses the canonical sign convention (negative = debit), so no
// polarity inversion is applied.
func FromOFX(_ context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		accountID := string(stmt.BankAcctFrom.AcctID)
		for i, ofxTx := range stmt.BankTranList.Transactions {
			tx, convErr := convertOFXTransaction(ofxTx, accountID)
			if convErr != nil {
				return nil, fmt.Errorf("bank statement %s record %d: %w", accountID, i, convErr)
			}
			transactions = append(transactions, tx)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		accountID := string(stmt.CCAcctFrom.AcctID)
		for i, ofxTx := range stmt.BankTranList.Transactions {
			tx, convErr := convertOFXTransaction(ofxTx, accountID)
			if convErr != nil {
				return nil, fmt.Errorf("credit card statement %s record %d: %w", accountID, i, convErr)
			}
			transactions = append(transactions, tx)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertOFXTransaction maps one OFX transaction to the canonical model.
// Like the other normalizers it is strict: a record with no usable merchant
// label fails the batch instead of producing an unlabeled transaction.
func convertOFXTransaction(ofxTx ofxgo.Transaction, accountID string) (model.Transaction, error) {
	amount, _ := ofxTx.TrnAmt.Float64()
	posted := ofxTx.DtPosted.Time

	id := string(ofxTx.FiTID)
	if id == "" {
		id = uuid.NewString()
	}

	description := ofxMerchantName(ofxTx)
	if description == "" {
		return model.Transaction{}, fmt.Errorf("%w: record %s has neither payee nor name",
			common.ErrMalformedTransaction, id)
	}

	return model.Transaction{
		ID:          id,
		Description: description,
		Amount:      amount,
		Date:        model.NewDate(posted.Year(), posted.Month(), posted.Day()),
		Category:    ofxCategory(ofxTx),
		AccountID:   accountID,
	}, nil
}

// ofxCategory infers a primary category from the OFX transaction type. OFX
// statements carry no category hierarchy of their own.
func ofxCategory(ofxTx ofxgo.Transaction) string {
	switch fmt.Sprintf("%v", ofxTx.TrnType) {
	case "INT":
		return "Income"
	case "FEE":
		return "Bank Fees"
	case "ATM":
		return "Cash & ATM"
	default:
		return ""
	}
}

// ofxMerchantName extracts a clean merchant label from OFX data.
func ofxMerchantName(tx ofxgo.Transaction) string {
	// PAYEE carries the cleanest name when present
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic to be a
// useful merchant label.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
