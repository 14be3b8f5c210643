package core

import (
	"fmt"
	"math/rand"
	"time"
)

const saleNumberPrefix = "RS"

// NextSaleNumber produces a human-readable sale number: the fixed prefix, a
// second-precision UTC timestamp, and a three-digit random suffix, e.g.
// RS20260829143057412. Uniqueness is not guaranteed here — the unique index on
// sales.sale_number is the arbiter, and a collision surfaces to the caller as
// ErrDuplicateSaleNumber so it can retry with a fresh number.
func NextSaleNumber() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	suffix := 100 + rand.Intn(900)
	return fmt.Sprintf("%s%s%d", saleNumberPrefix, timestamp, suffix)
}
