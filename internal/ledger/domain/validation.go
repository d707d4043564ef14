package domain

// ValidateBalanced ensures ledger lines sum to a balanced double-entry
// posting. A valid posting has at least one debit and one credit line,
// strictly positive amounts, and equal totals on both sides.
func ValidateBalanced(lines []LedgerEntryLine) error {
	if len(lines) < 2 {
		return ErrInvalidEntryLines
	}

	var debitTotal, creditTotal int64
	var debits, credits int
	for _, line := range lines {
		if line.Amount <= 0 {
			return ErrInvalidLineAmount
		}
		switch line.Direction {
		case LedgerEntryDirectionDebit:
			debitTotal += line.Amount
			debits++
		case LedgerEntryDirectionCredit:
			creditTotal += line.Amount
			credits++
		default:
			return ErrInvalidLineDirection
		}
	}
	if debits == 0 || credits == 0 {
		return ErrInvalidEntryLines
	}

	if debitTotal != creditTotal {
		return ErrUnbalancedEntry
	}
	return nil
}
