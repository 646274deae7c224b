package storage

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	interviewKeyPrefix = "personality-check-"
	reportKeyPrefix    = "verification-report-"

	InterviewIDLength = 13
	idAlphabet        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func InterviewKey(id string) string {
	return interviewKeyPrefix + id
}

func ReportKey(id string) string {
	return reportKeyPrefix + id
}

// NewInterviewID returns a random lowercase alphanumeric identifier of
// InterviewIDLength characters.
func NewInterviewID() (string, error) {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, InterviewIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate interview id: %w", err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf), nil
}
