package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitIncludedVAT(t *testing.T) {
	// 110.000 Gs gross under 10% included VAT: net 100.000, VAT 10.000
	net, vat := SplitIncludedVAT(110000)
	assert.True(t, net.Equal(decimal.NewFromInt(100000)), "net should be 100000, got %s", net)
	assert.True(t, vat.Equal(decimal.NewFromInt(10000)), "vat should be 10000, got %s", vat)
}

func TestSplitIncludedVATAddsBackUp(t *testing.T) {
	for _, gross := range []int64{1, 10, 99, 110, 1234567, 50000, 7777} {
		net, vat := SplitIncludedVAT(gross)
		sum := net.Add(vat)
		assert.True(t, sum.Equal(decimal.NewFromInt(gross)),
			"net+vat should equal gross %d, got %s", gross, sum)
	}
}

func TestGrossFromNet(t *testing.T) {
	gross := GrossFromNet(decimal.NewFromInt(100000))
	assert.True(t, gross.Equal(decimal.NewFromInt(110000)), "gross should be 110000, got %s", gross)
}
