package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
)

func makeRandomSends(num int, network domain.Network) []domain.Send {
	sends := make([]domain.Send, 0, num)
	for i := 0; i < num; i++ {
		sends = append(sends, domain.Send{
			TxID:             randomHex(32),
			Network:          network,
			RecipientAddress: randomHex(20),
			AmountSats:       uint64(randomIntInRange(546, 1_000_000)),
			FeeSats:          uint64(randomIntInRange(100, 10_000)),
			FeeRate:          2,
			InputCount:       1,
			Timestamp:        randomTimestamp(),
		})
	}
	return sends
}

func randomTimestamp() int64 {
	return int64(randomIntInRange(1000000000, 1662688000))
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
