package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Money
		wantErr bool
	}{
		{name: "whole rupees", input: "500", want: 50000},
		{name: "rupees and paise", input: "123.45", want: 12345},
		{name: "single fractional digit", input: "10.5", want: 1050},
		{name: "leading dot", input: ".99", want: 99},
		{name: "negative", input: "-250.75", want: -25075},
		{name: "zero", input: "0", want: 0},
		{name: "surrounding whitespace", input: "  42.00  ", want: 4200},
		{name: "too many decimals", input: "1.234", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "sign inside fraction", input: "1.-3", wantErr: true},
		{name: "sign inside wider fraction", input: "12.-3", wantErr: true},
		{name: "double sign", input: "--5", wantErr: true},
		{name: "plus inside fraction", input: "1.+5", wantErr: true},
		{name: "plus prefix", input: "+5", wantErr: true},
		{name: "whitespace inside fraction", input: "1. 5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "123.45", Money(12345).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-250.75", Money(-25075).String())
	assert.Equal(t, "0.00", Money(0).String())
}
