// Package sim drives a scripted multi-user scenario against an in-memory
// vault. It is the demo and smoke-test surface of the binary: every ledger
// entry point gets exercised, including the paths that are supposed to fail.
package sim

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/halvard/vault-core/internal/access"
	"github.com/halvard/vault-core/internal/config"
	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/models"
	"github.com/halvard/vault-core/internal/oracle"
	"github.com/halvard/vault-core/internal/registry"
	"github.com/halvard/vault-core/internal/token"
	"github.com/halvard/vault-core/internal/vault"
)

const (
	adminAddr   = models.Address("0xadmin")
	managerAddr = models.Address("0xmanager")
	alice       = models.Address("0xalice")
	bob         = models.Address("0xbob")

	usdcID = models.AssetID("USDC")
	daiID  = models.AssetID("DAI")

	// $3,000.00 starting native price, 8 decimals.
	startPrice = int64(300_000_000_000)
)

// Step is one scripted action. ExpectErr marks steps that demonstrate a
// rejection; for those, success means the matching error came back.
type Step struct {
	Name      string
	ExpectErr error
	Run       func() error
}

// StepResult reports one executed step to the caller.
type StepResult struct {
	Index int
	Total int
	Name  string
	Err   error
	Ok    bool
}

// Scenario owns the vault under test and its collaborators.
type Scenario struct {
	Vault *vault.Vault
	Feed  *oracle.StaticFeed

	native *token.Fungible
	usdc   *token.Fungible
	dai    *token.Fungible
}

// NewScenario builds a vault with a static price feed, two stable tokens, and
// funded demo users.
func NewScenario(cfg *config.Config) (*Scenario, error) {
	feed := oracle.NewStaticFeed(startPrice)
	gateway := oracle.NewGateway(feed, cfg.MaxPriceAge, cfg.MinPrice)
	roles := access.NewRoles(adminAddr)
	roles.Grant(managerAddr, access.RoleManager)
	breaker := access.NewBreaker()
	native := token.NewNative(models.Address(cfg.VaultAddress))

	v := vault.New(cfg, gateway, roles, breaker, native)

	usdc := token.NewFungible("USDC", 6, v.Address())
	dai := token.NewFungible("DAI", 18, v.Address())
	if err := v.RegisterAsset(managerAddr, usdcID, usdc); err != nil {
		return nil, fmt.Errorf("failed to register USDC: %w", err)
	}
	if err := v.RegisterAsset(managerAddr, daiID, dai); err != nil {
		return nil, fmt.Errorf("failed to register DAI: %w", err)
	}

	native.Mint(alice, units(10, 18))
	native.Mint(bob, units(10, 18))
	usdc.Mint(alice, units(100_000, 6))
	usdc.Mint(bob, units(25_000, 6))
	dai.Mint(bob, units(5_000, 18))

	return &Scenario{Vault: v, Feed: feed, native: native, usdc: usdc, dai: dai}, nil
}

// Steps returns the scripted sequence.
func (s *Scenario) Steps() []Step {
	v := s.Vault
	return []Step{
		{Name: "alice deposits 2 native units", Run: func() error {
			return v.DepositNative(alice, units(2, 18))
		}},
		{Name: "bob deposits 1 native unit", Run: func() error {
			return v.DepositNative(bob, units(1, 18))
		}},
		{Name: "alice deposits 60,000 USDC", Run: func() error {
			return v.DepositToken(alice, usdcID, units(60_000, 6))
		}},
		{Name: "bob deposits 5,000 DAI", Run: func() error {
			return v.DepositToken(bob, daiID, units(5_000, 18))
		}},
		{Name: "native price drops to $2,400", Run: func() error {
			s.Feed.SetPrice(240_000_000_000)
			return nil
		}},
		{Name: "alice withdraws 1 native unit", Run: func() error {
			return v.WithdrawNative(alice, units(1, 18))
		}},
		{Name: "dust deposit rejected", ExpectErr: vault.ErrAmountTooSmall, Run: func() error {
			return v.DepositNative(bob, uint256.NewInt(1))
		}},
		{Name: "manager pauses USDC deposits", Run: func() error {
			return v.SetAssetStatus(managerAddr, usdcID, models.AssetPaused)
		}},
		{Name: "USDC deposit blocked while paused", ExpectErr: registry.ErrTokenPaused, Run: func() error {
			return v.DepositToken(bob, usdcID, units(100, 6))
		}},
		{Name: "alice withdraws 4,000 paused USDC", Run: func() error {
			return v.WithdrawToken(alice, usdcID, units(4_000, 6))
		}},
		{Name: "oversized withdrawal rejected", ExpectErr: vault.ErrWithdrawalLimitExceeded, Run: func() error {
			return v.WithdrawToken(alice, usdcID, units(55_000, 6))
		}},
		{Name: "admin halts the system", Run: func() error {
			return v.Pause(adminAddr)
		}},
		{Name: "deposit blocked while halted", ExpectErr: vault.ErrHalted, Run: func() error {
			return v.DepositNative(alice, units(1, 18))
		}},
		{Name: "admin resumes the system", Run: func() error {
			return v.Unpause(adminAddr)
		}},
		{Name: "bob withdraws 2,000 DAI", Run: func() error {
			return v.WithdrawToken(bob, daiID, units(2_000, 18))
		}},
	}
}

// Run executes every step in order, reporting each outcome. Expected
// rejections count as success; any other error stops the run.
func (s *Scenario) Run(onStep func(StepResult)) error {
	steps := s.Steps()
	for i, step := range steps {
		err := step.Run()

		ok := err == nil
		if step.ExpectErr != nil {
			ok = errors.Is(err, step.ExpectErr)
		}

		if onStep != nil {
			onStep(StepResult{Index: i + 1, Total: len(steps), Name: step.Name, Err: err, Ok: ok})
		}

		if !ok {
			logger.Error("Scenario step %d/%d failed: %s: %v", i+1, len(steps), step.Name, err)
			return fmt.Errorf("step %q failed: %w", step.Name, err)
		}
		logger.Debug("Scenario step %d/%d done: %s", i+1, len(steps), step.Name)
	}

	logger.Info("Scenario complete: aggregate value %d across %d assets",
		s.Vault.TotalNormalizedValue(), len(s.Vault.SupportedAssets()))
	return nil
}

// units builds n whole units of an asset with the given precision.
func units(n uint64, decimals uint8) *uint256.Int {
	out := uint256.NewInt(n)
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	return out.Mul(out, scale)
}
