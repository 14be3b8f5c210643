package core_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"radiator-stock/internal/core"
)

var saleNumberPattern = regexp.MustCompile(`^RS\d{14}\d{3}$`)

func TestNextSaleNumber_Format(t *testing.T) {
	n := core.NextSaleNumber()
	if !saleNumberPattern.MatchString(n) {
		t.Errorf("sale number %q does not match RS + 14-digit timestamp + 3-digit suffix", n)
	}
}

func TestNextSaleNumber_TimestampIsUTC(t *testing.T) {
	before := time.Now().UTC()
	n := core.NextSaleNumber()
	after := time.Now().UTC()

	ts, err := time.Parse("20060102150405", strings.TrimPrefix(n, "RS")[:14])
	if err != nil {
		t.Fatalf("failed to parse timestamp portion of %q: %v", n, err)
	}
	// Truncate the bounds to seconds since the number has second precision.
	if ts.Before(before.Truncate(time.Second)) || ts.After(after) {
		t.Errorf("timestamp %s outside generation window [%s, %s]", ts, before, after)
	}
}

func TestNextSaleNumber_SuffixRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := core.NextSaleNumber()
		suffix := n[len(n)-3:]
		if suffix[0] == '0' {
			t.Fatalf("suffix %s of %q below 100", suffix, n)
		}
	}
}
