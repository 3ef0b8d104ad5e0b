package main

import (
	"fmt"

	"github.com/google/wire"
	"github.com/pandodao/generic"
	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store/account"
	"github.com/pandodao/safe-ledger/store/asset"
	"github.com/pandodao/safe-ledger/store/db"
	"github.com/pandodao/safe-ledger/store/memory"
	"github.com/pandodao/safe-ledger/store/transaction"
	"github.com/pandodao/safe-ledger/store/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tsenart/nap"
)

var storeSet = wire.NewSet(
	provideBackend,
	wire.FieldsOf(new(backend), "Assets", "Accounts", "Wallets", "Transactions"),
)

type backend struct {
	Assets       core.AssetStore
	Accounts     core.AccountStore
	Wallets      core.WalletStore
	Transactions core.TransactionStore
}

func provideBackend(v *viper.Viper) (backend, func(), error) {
	v.SetDefault("db.driver", "postgres")

	switch driver := v.GetString("db.driver"); driver {
	case "memory":
		return provideMemory(v)
	case "postgres":
		return providePostgres(v)
	default:
		return backend{}, nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// migrateData describes the amount columns; the ledger bounds amounts by it
// whichever driver is used.
func migrateData(v *viper.Viper) db.MigrateData {
	data := db.DefaultMigrateData()
	v.SetDefault("db.amount_scale", data.AmountScale)
	data.AmountScale = v.GetInt("db.amount_scale")
	return data
}

func providePostgres(v *viper.Viper) (backend, func(), error) {
	dsn := v.GetString("db.dsn")
	for _, replica := range v.GetStringSlice("db.replicas") {
		dsn += ";" + replica
	}

	conn, err := nap.Open("postgres", dsn)
	if err != nil {
		return backend{}, nil, err
	}

	if err := db.Migrate(conn.Master(), migrateData(v)); err != nil {
		_ = conn.Close()
		return backend{}, nil, err
	}

	b := backend{
		Assets:       asset.New(conn),
		Accounts:     account.New(conn),
		Wallets:      wallet.New(conn),
		Transactions: transaction.New(conn),
	}

	return b, func() { _ = conn.Close() }, nil
}

type seedAsset struct {
	ID     int64  `mapstructure:"id"`
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
}

type seedAccount struct {
	ID       int64  `mapstructure:"id"`
	Username string `mapstructure:"username"`
}

type seedWallet struct {
	ID        int64  `mapstructure:"id"`
	AccountID int64  `mapstructure:"account_id"`
	AssetID   int64  `mapstructure:"asset_id"`
	Address   string `mapstructure:"address"`
	Amount    string `mapstructure:"amount"`
}

type seedConfig struct {
	Assets   []seedAsset   `mapstructure:"assets"`
	Accounts []seedAccount `mapstructure:"accounts"`
	Wallets  []seedWallet  `mapstructure:"wallets"`
}

func provideMemory(v *viper.Viper) (backend, func(), error) {
	var cfg seedConfig
	if err := v.UnmarshalKey("db.seed", &cfg); err != nil {
		return backend{}, nil, fmt.Errorf("decode db.seed: %w", err)
	}

	seed := memory.Seed{
		Assets: generic.MapSlice(cfg.Assets, func(a seedAsset) *core.Asset {
			return &core.Asset{ID: a.ID, Symbol: a.Symbol, Name: a.Name}
		}),
		Accounts: generic.MapSlice(cfg.Accounts, func(a seedAccount) *core.Account {
			return &core.Account{ID: a.ID, Username: a.Username}
		}),
	}

	for _, w := range cfg.Wallets {
		amount := decimal.Zero
		if w.Amount != "" {
			var err error
			if amount, err = decimal.NewFromString(w.Amount); err != nil {
				return backend{}, nil, fmt.Errorf("wallet %s: invalid amount %q: %w", w.Address, w.Amount, err)
			}
		}

		seed.Wallets = append(seed.Wallets, &core.Wallet{
			ID:        w.ID,
			AccountID: w.AccountID,
			AssetID:   w.AssetID,
			Address:   w.Address,
			Amount:    amount,
		})
	}

	store, err := memory.New(seed)
	if err != nil {
		return backend{}, nil, err
	}

	b := backend{
		Assets:       store.Assets(),
		Accounts:     store.Accounts(),
		Wallets:      store.Wallets(),
		Transactions: store.Transactions(),
	}

	return b, func() {}, nil
}
