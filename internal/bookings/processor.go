package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ChargeRequest is what the payment gateway needs to run a charge.
type ChargeRequest struct {
	SessionID string
	Method    string
	Amount    float64
	Currency  string
}

type ChargeResult struct {
	TransactionID string
	ProcessedAt   time.Time
}

// Processor runs charges. A real gateway integration plugs in here; the
// shipped implementation simulates one.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedProcessor stands in for the payment gateway: a fixed delay,
// then success. A failure can be injected for testing failure handling.
type SimulatedProcessor struct {
	delay time.Duration

	// FailWith, when set, makes every charge fail with this error
	FailWith error
}

func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if p.FailWith != nil {
		return nil, p.FailWith
	}

	return &ChargeResult{
		TransactionID: generateTransactionID(),
		ProcessedAt:   time.Now(),
	}, nil
}

// generateTransactionID creates a transaction id like TXN-1718000000-A3F7K2
func generateTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().Unix(), randomUpperAlnum(6))
}

// generateBookingRef creates a reference like BK-20250601-K3XA7Q
func generateBookingRef() string {
	return fmt.Sprintf("BK-%s-%s", time.Now().Format("20060102"), randomUpperAlnum(6))
}

func randomUpperAlnum(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			// Fall back to a time-derived character
			result[i] = charset[time.Now().UnixNano()%int64(len(charset))]
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
