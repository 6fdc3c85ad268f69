package accounting

import (
	"fmt"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateLine checks the per-line invariant: amounts are non-negative and
// exactly one of debit/credit is nonzero.
func ValidateLine(line domain.JournalLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("line amounts must not be negative for account %s", line.AccountID)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet && creditSet {
		return fmt.Errorf("line for account %s has both debit and credit set", line.AccountID)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("line for account %s has neither debit nor credit set", line.AccountID)
	}
	return nil
}

// SumLines returns the debit and credit totals across all lines.
func SumLines(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateEntryLines checks the construction-time invariants for a set of
// journal lines: at least two lines, each line well-formed, and debits equal
// credits (the double-entry invariant).
func ValidateEntryLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
	}
	debits, credits := SumLines(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("debits %s do not equal credits %s", debits.String(), credits.String())
	}
	return nil
}

// NetBalance computes the signed balance of an account from its debit/credit
// totals, positive on the account's normal side.
// Debit-normal (Asset/Expense): debit - credit.
// Credit-normal (Liability/Equity/Revenue): credit - debit.
func NetBalance(accountType domain.AccountType, debitTotal, creditTotal decimal.Decimal) decimal.Decimal {
	if accountType.NormalSide() == domain.DebitSide {
		return debitTotal.Sub(creditTotal)
	}
	return creditTotal.Sub(debitTotal)
}

// NegateLines returns the exact negation of the given lines: every debit
// becomes a credit of the same amount and vice versa. Used to build reversal
// entries; the result always balances when the input balances.
func NegateLines(lines []domain.JournalLine) []domain.JournalLine {
	negated := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		negated[i] = line
		negated[i].Debit = line.Credit
		negated[i].Credit = line.Debit
	}
	return negated
}
