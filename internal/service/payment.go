package service

import (
	"context"

	"github.com/google/uuid"

	"classbook-backend/internal/logger"
)

// loggingGateway records charges without contacting a processor. It stands in
// until the real processor integration lands; every charge succeeds and gets
// a reference usable for reconciliation.
type loggingGateway struct{}

func NewLoggingGateway() PaymentGateway {
	return &loggingGateway{}
}

func (g *loggingGateway) Charge(ctx context.Context, memberID int32, paymentMethodID string, amountCents int64, description string) (string, error) {
	ref := "chg_" + uuid.NewString()
	logger.Info("payment charged",
		"member_id", memberID, "payment_method", paymentMethodID,
		"amount_cents", amountCents, "description", description, "charge_ref", ref)
	return ref, nil
}
