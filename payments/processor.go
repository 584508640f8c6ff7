package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
)

const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

type Settlement struct {
	Status         string
	TransactionRef string
}

// Processor settles a pending payment. A Settlement with status failed is a
// decline; a returned error means the processor could not be reached.
type Processor interface {
	Settle(ctx context.Context, payment models.Payment) (Settlement, error)
}

func IsSupportedMethod(method string) bool {
	return method == MethodCard || method == MethodBankTransfer
}

// InstantProcessor completes every payment on the spot. There is no gateway
// behind it; the transaction reference is generated locally.
type InstantProcessor struct{}

func (InstantProcessor) Settle(ctx context.Context, payment models.Payment) (Settlement, error) {
	if err := ctx.Err(); err != nil {
		return Settlement{}, err
	}
	if !IsSupportedMethod(payment.PaymentMethod) {
		return Settlement{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, payment.PaymentMethod)
	}

	ref := "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	return Settlement{Status: models.PaymentCompleted, TransactionRef: ref}, nil
}
