package main

import (
	"fmt"

	"github.com/google/wire"
	"github.com/pandodao/safe-ledger/service/asset"
	"github.com/pandodao/safe-ledger/service/ledger"
	"github.com/spf13/viper"
)

var serviceSet = wire.NewSet(
	provideLedgerConfig,
	asset.New,
	ledger.New,
)

func provideLedgerConfig(v *viper.Viper) (ledger.Config, error) {
	data := migrateData(v)
	v.SetDefault("ledger.precision", data.AmountScale)

	precision := v.GetInt("ledger.precision")
	if precision > data.AmountScale {
		return ledger.Config{}, fmt.Errorf("ledger.precision %d exceeds db.amount_scale %d", precision, data.AmountScale)
	}

	if data.AmountScale >= data.AmountPrecision {
		return ledger.Config{}, fmt.Errorf("db.amount_scale %d leaves no integer digits", data.AmountScale)
	}

	return ledger.Config{
		Precision:     int32(precision),
		IntegerDigits: int32(data.AmountPrecision - data.AmountScale),
	}, nil
}
