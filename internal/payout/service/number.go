package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const payoutNumberPrefix = "PAY-OUT"

// nextPayoutNumber produces the next sequential number for the year, format
// PAY-OUT-<year>-<seq>. The sequence resets each calendar year because the
// prefix changes. Runs inside the creation transaction; the unique index on
// payout_number turns a concurrent duplicate into a failed transaction
// instead of a persisted collision.
func (s *Service) nextPayoutNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", payoutNumberPrefix, year)
	latest, err := s.repo.MaxPayoutNumber(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		suffix := strings.TrimPrefix(latest, prefix)
		parsed, err := strconv.Atoi(suffix)
		if err != nil {
			return "", fmt.Errorf("malformed payout number %q: %w", latest, err)
		}
		seq = parsed + 1
	}

	// Past 9999 the number widens; the max lookup orders by length first
	// so a widened suffix still wins over "9999".
	width := 4
	if digits := len(strconv.Itoa(seq)); digits > width {
		width = digits
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq), nil
}
