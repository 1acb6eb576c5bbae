package main

import (
	"strings"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/x/capability"
	"github.com/iov-one/raise/x/membership"
	"github.com/iov-one/raise/x/offering"
	"github.com/iov-one/raise/x/token"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"
)

// config carries the full construction state of a raised instance. All
// of it is fixed at startup; there is no runtime reconfiguration.
type config struct {
	ListenAddress string `mapstructure:"listen_address"`

	Issuer  string `mapstructure:"issuer"`
	Version string `mapstructure:"version"`

	ValueTicker   string `mapstructure:"value_ticker"`
	ValueName     string `mapstructure:"value_name"`
	ValueDecimals uint8  `mapstructure:"value_decimals"`

	ShareTicker string `mapstructure:"share_ticker"`
	ShareName   string `mapstructure:"share_name"`

	TotalSupply    uint64 `mapstructure:"total_supply"`
	Manager        string `mapstructure:"manager"`
	MinimalPercent uint8  `mapstructure:"minimal_percent"`
	UnitPrice      uint64 `mapstructure:"unit_price"`

	// Admins receive the raise/manage and members/manage capabilities.
	Admins []string `mapstructure:"admins"`
	// Members seed the whitelist. More can be added by an admin later.
	Members []string `mapstructure:"members"`
	// Balances pre-funds value wallets, keyed by hex address.
	Balances map[string]uint64 `mapstructure:"balances"`
}

func loadConfig(path string) (config, error) {
	v := viper.New()
	v.SetDefault("listen_address", ":8080")
	v.SetDefault("version", "1")
	v.SetEnvPrefix("raised")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, errors.Wrap(err, "read configuration")
		}
	}

	var c config
	if err := v.Unmarshal(&c); err != nil {
		return config{}, errors.Wrap(err, "parse configuration")
	}
	return c, nil
}

// services holds everything a running daemon needs.
type services struct {
	engine  *offering.Engine
	members *membership.Controller
	metrics *offering.Metrics
}

// bootstrap builds the ledgers, capability grants, member list and the
// offering itself from the configuration.
func (c config) bootstrap(db raise.CacheableKVStore, clock clockwork.Clock, svc *services) (*offering.Controller, error) {
	now := raise.AsUnixTime(clock.Now())

	value := token.NewLedger(c.ValueTicker)
	if err := value.Create(db, c.ValueName, c.ValueDecimals); err != nil {
		return nil, errors.Wrap(err, "value ledger")
	}
	for addr, amount := range c.Balances {
		holder, err := raise.ParseAddress(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "balance holder %q", addr)
		}
		if err := value.Issue(db, holder, amount); err != nil {
			return nil, errors.Wrapf(err, "fund %q", addr)
		}
	}

	caps := capability.NewRegistry()
	members := membership.NewController(caps)
	var admin raise.Address
	for _, a := range c.Admins {
		addr, err := raise.ParseAddress(a)
		if err != nil {
			return nil, errors.Wrapf(err, "admin %q", a)
		}
		if err := caps.Assign(db, addr, offering.CapManageRaise, now); err != nil {
			return nil, err
		}
		if err := caps.Assign(db, addr, membership.CapManageMembers, now); err != nil {
			return nil, err
		}
		admin = addr
	}
	if admin == nil && len(c.Members) > 0 {
		return nil, errors.Wrap(errors.ErrInput, "members configured without an admin")
	}
	for _, m := range c.Members {
		addr, err := raise.ParseAddress(m)
		if err != nil {
			return nil, errors.Wrapf(err, "member %q", m)
		}
		if err := members.Add(db, admin, addr, now); err != nil {
			return nil, err
		}
	}

	manager, err := raise.ParseAddress(c.Manager)
	if err != nil {
		return nil, errors.Wrap(err, "manager")
	}
	cfg := offering.Config{
		Issuer:         c.Issuer,
		Version:        c.Version,
		ValueTicker:    c.ValueTicker,
		ShareTicker:    c.ShareTicker,
		ShareName:      c.ShareName,
		TotalSupply:    c.TotalSupply,
		Manager:        manager,
		MinimalPercent: c.MinimalPercent,
		UnitPrice:      c.UnitPrice,
	}
	ctrl := offering.NewController(cfg, members, caps, clock)
	if err := ctrl.Bootstrap(db, cfg); err != nil {
		return nil, err
	}
	svc.members = members
	return ctrl, nil
}
