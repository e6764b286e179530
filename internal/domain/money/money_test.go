//go:build unit

package money_test

import (
	"encoding/json"
	"testing"

	"campus-market/internal/domain/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := money.Parse("12.345")
	require.NoError(t, err)
	assert.Equal(t, "12.35", m.String())

	_, err = money.Parse("twelve")
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestMoney_Arithmetic(t *testing.T) {
	ten := money.FromInt(10)

	assert.Equal(t, "8.00", ten.MulRatio(80, 100).String())
	assert.Equal(t, "3.33", ten.MulRatio(1, 3).String())
	assert.Equal(t, "0.00", ten.MulRatio(1, 0).String())
	assert.Equal(t, "30.00", ten.MulInt(3).String())
	assert.Equal(t, "0.00", ten.Sub(money.FromInt(25)).ClampZero().String())
	assert.Equal(t, int64(6), money.FromFloat(6.99).Floor())
	assert.Equal(t, "6.00", money.Min(money.FromInt(6), ten).String())
	assert.Equal(t, "10.00", money.Max(money.FromInt(6), ten).String())
}

func TestMoney_Encoding(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount money.Money `json:"amount"`
	}{money.FromInt(28)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"28.00"}`, string(b))

	var got struct {
		Amount money.Money `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"4.5"}`), &got))
	assert.Equal(t, "4.50", got.Amount.String())

	var scanned money.Money
	require.NoError(t, scanned.Scan("19.999"))
	assert.True(t, scanned.Equal(money.New(decimal.NewFromInt(20))))

	v, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, "20.00", v)
}
