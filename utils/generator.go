package utils

import (
	"context"
	"math/rand"
)

const referenceCodeLength = 8
const letterBytes = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const OrderReferencePrefix = "ORD-"

// GenerateOrderReference draws codes until exists reports one as unused.
// Codes come from the shared, randomly seeded source of math/rand, so
// concurrent callers never replay the same sequence.
func GenerateOrderReference(ctx context.Context, exists func(ctx context.Context, reference string) (bool, error)) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		b := make([]byte, referenceCodeLength)
		for i := range b {
			b[i] = letterBytes[rand.Intn(len(letterBytes))]
		}
		code := OrderReferencePrefix + string(b)

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}
