// Package identity generates the public identifiers of new users.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/pkg/crypto"
	"github.com/questx-lab/signal/pkg/xcontext"
)

var sciFiWords = []string{
	"Nova", "Orion", "Cygnus", "Vega", "Sirius", "Rigel", "Alpha", "Zeta", "Krypton",
	"Xylar", "Zorg", "Krell", "Cyber", "Robo", "Mecha", "Droid", "Plasma", "Quantum",
	"Void", "Echo", "Helio", "Luna", "Terra", "Mars", "Jupiter", "Saturn", "Titan",
	"Europa", "Ganymede", "Callisto", "Io", "Pluto", "Charon", "Xenon", "Argon",
	"Kryptos", "Stardust", "Comet", "Meteor", "Pulsar", "Quasar", "Nebulae",
	"Celestia", "Solara", "Lunaris", "Terran", "Galaxion", "Vortex", "Apex",
	"Zenith", "Flux", "Matrix", "Cipher", "Vector", "Relic", "Oracle", "Aegis",
	"Nomad", "Rogue", "Specter", "Wraith", "Phantom", "Reaper", "Guardian",
}

// Checker looks up identifiers which are already taken.
type Checker interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
}

type Options struct {
	// UsernameRetries bounds the suffixed candidates tried after the random
	// base name is taken.
	UsernameRetries int

	// ReferralCodeRetries bounds the candidates tried after the first one.
	ReferralCodeRetries int
	ReferralCodePrefix  string
	ReferralCodeLength  int
}

func OptionsFromConfig(cfg config.IdentityConfigs) Options {
	return Options{
		UsernameRetries:     cfg.UsernameRetries,
		ReferralCodeRetries: cfg.ReferralCodeRetries,
		ReferralCodePrefix:  cfg.ReferralCodePrefix,
		ReferralCodeLength:  cfg.ReferralCodeLength,
	}
}

type Generator struct {
	opts    Options
	checker Checker
}

func NewGenerator(opts Options, checker Checker) *Generator {
	return &Generator{opts: opts, checker: checker}
}

// RandomUsername returns a sci-fi word followed by one to three digits,
// sometimes separated by an underscore.
func RandomUsername() string {
	word := sciFiWords[crypto.RandIntn(len(sciFiWords))]
	suffix := crypto.GenerateRandomFrom(crypto.Digits, crypto.RandRange(1, 4))
	if crypto.RandIntn(2) == 0 {
		return fmt.Sprintf("%s_%s", word, suffix)
	}

	return word + suffix
}

// Username returns a username which is not taken yet. When the random base
// and all of its suffixed variants are taken, it falls back to Agent plus
// random hex, which is not checked again.
func (g *Generator) Username(ctx context.Context) (string, error) {
	base := RandomUsername()
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := g.checker.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}

		if counter > g.opts.UsernameRetries {
			break
		}

		candidate = fmt.Sprintf("%s_%d", base, counter)
	}

	xcontext.Logger(ctx).Errorf("Cannot generate unique username for base %s, use fallback", base)
	suffix, err := crypto.GenerateRandomHex(4)
	if err != nil {
		return "", err
	}

	return "Agent" + suffix, nil
}

// ReferralCode returns a referral code which is not taken yet. Each retry
// uses a longer random part, the fallback is REF plus random hex.
func (g *Generator) ReferralCode(ctx context.Context) (string, error) {
	length := g.opts.ReferralCodeLength
	for counter := 0; counter <= g.opts.ReferralCodeRetries; counter++ {
		if counter > 0 {
			length = g.opts.ReferralCodeLength + 1
			if counter >= 5 {
				length = g.opts.ReferralCodeLength + 2
			}
		}

		candidate := g.opts.ReferralCodePrefix + crypto.GenerateRandomFrom(crypto.UpperAlphanumeric, length)
		taken, err := g.checker.ExistsByReferralCode(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}

	xcontext.Logger(ctx).Errorf("Cannot generate unique referral code, use fallback")
	suffix, err := crypto.GenerateRandomHex(5)
	if err != nil {
		return "", err
	}

	return "REF" + strings.ToUpper(suffix), nil
}
