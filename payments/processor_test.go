package payments

import (
	"context"
	"testing"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantProcessorCompletesSupportedMethods(t *testing.T) {
	for _, method := range []string{MethodCard, MethodBankTransfer} {
		settlement, err := InstantProcessor{}.Settle(context.Background(), models.Payment{PaymentMethod: method})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, settlement.Status)
		assert.Regexp(t, `^TXN-[0-9A-F]{16}$`, settlement.TransactionRef)
	}
}

func TestInstantProcessorRejectsUnknownMethod(t *testing.T) {
	_, err := InstantProcessor{}.Settle(context.Background(), models.Payment{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestInstantProcessorHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := InstantProcessor{}.Settle(ctx, models.Payment{PaymentMethod: MethodCard})
	assert.ErrorIs(t, err, context.Canceled)
}
