package approval

import (
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

// Stage is one step of a chain: the role that acts, the status it acts on, and where
// approve and reject lead.
type Stage struct {
	Role   user.Role
	From   Status
	Accept Status
	Reject Status
}

// Override lets one role move a request to a terminal status from anywhere in the chain
type Override struct {
	Role   user.Role
	Status Status
}

type Chain struct {
	Variant  Variant
	Stages   []Stage
	Override *Override
}

// Initial is the status new requests start in
func (c Chain) Initial() Status {
	if len(c.Stages) == 0 {
		return ""
	}
	return c.Stages[0].From
}

func (c Chain) StageFor(role user.Role) (Stage, bool) {
	for _, stage := range c.Stages {
		if stage.Role == role {
			return stage, true
		}
	}
	return Stage{}, false
}

// PendingStatusFor returns the status the role is responsible for
func (c Chain) PendingStatusFor(role user.Role) (Status, bool) {
	stage, ok := c.StageFor(role)
	if !ok {
		return "", false
	}
	return stage.From, true
}

func (c Chain) PendingStatuses() []Status {
	statuses := make([]Status, 0, len(c.Stages))
	for _, stage := range c.Stages {
		statuses = append(statuses, stage.From)
	}
	return statuses
}

// IsTerminal reports whether no stage acts on s
func (c Chain) IsTerminal(s Status) bool {
	for _, stage := range c.Stages {
		if stage.From == s {
			return false
		}
	}
	return true
}

// Rank orders statuses along the chain. Pending statuses rank by stage position and every
// terminal status ranks after all of them.
func (c Chain) Rank(s Status) int {
	for i, stage := range c.Stages {
		if stage.From == s {
			return i
		}
	}
	return len(c.Stages)
}

// Transition returns the status a decision moves a request to, or why it cannot.
// Reject is not gated by role; any caller may reject a request that is still pending.
func (c Chain) Transition(from Status, role user.Role, decision Decision) (Status, error) {
	switch decision {
	case DecisionReject:
		for _, stage := range c.Stages {
			if stage.From == from {
				return stage.Reject, nil
			}
		}
		return "", ErrAlreadyResolved

	case DecisionApprove:
		stage, ok := c.StageFor(role)
		if !ok {
			return "", ErrUnauthorizedRole
		}
		if from != stage.From {
			return "", &StageMismatchError{Role: role, Expected: stage.From, Actual: from}
		}
		return stage.Accept, nil

	case DecisionOverride:
		if c.Override == nil || c.Override.Role != role {
			return "", ErrUnauthorizedRole
		}
		if from == c.Override.Status || c.isRejectStatus(from) {
			return "", ErrAlreadyResolved
		}
		return c.Override.Status, nil
	}
	return "", ErrInvalidDecision
}

func (c Chain) isRejectStatus(s Status) bool {
	for _, stage := range c.Stages {
		if stage.Reject == s {
			return true
		}
	}
	return false
}

// MaxActions bounds the number of decisions a request can collect
func (c Chain) MaxActions() int {
	return len(c.Stages) + 1
}

// Validate checks that stages link up and every status is known
func (c Chain) Validate() error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("%w: %s has no stages", ErrInvalidChain, c.Variant)
	}

	roles := make(map[user.Role]bool, len(c.Stages))
	for i, stage := range c.Stages {
		if !stage.Role.IsValid() {
			return fmt.Errorf("%w: %s stage %d has unknown role %q", ErrInvalidChain, c.Variant, i, stage.Role)
		}
		if roles[stage.Role] {
			return fmt.Errorf("%w: %s role %q appears in more than one stage", ErrInvalidChain, c.Variant, stage.Role)
		}
		roles[stage.Role] = true

		for _, s := range []Status{stage.From, stage.Accept, stage.Reject} {
			if !s.IsValid() {
				return fmt.Errorf("%w: %s stage %d has unknown status %q", ErrInvalidChain, c.Variant, i, s)
			}
		}
		if i > 0 && c.Stages[i-1].Accept != stage.From {
			return fmt.Errorf("%w: %s stage %d starts at %s but the previous stage accepts into %s",
				ErrInvalidChain, c.Variant, i, stage.From, c.Stages[i-1].Accept)
		}
	}

	last := c.Stages[len(c.Stages)-1]
	if !c.IsTerminal(last.Accept) {
		return fmt.Errorf("%w: %s final stage must accept into a terminal status", ErrInvalidChain, c.Variant)
	}
	for _, stage := range c.Stages {
		if !c.IsTerminal(stage.Reject) {
			return fmt.Errorf("%w: %s reject status %s must be terminal", ErrInvalidChain, c.Variant, stage.Reject)
		}
	}

	if c.Override != nil {
		if !c.Override.Role.IsValid() || !c.Override.Status.IsValid() || !c.IsTerminal(c.Override.Status) {
			return fmt.Errorf("%w: %s override must name a known role and a terminal status", ErrInvalidChain, c.Variant)
		}
	}
	return nil
}

// ChainConfig is the process-wide table of chains, one per variant
type ChainConfig struct {
	chains map[Variant]Chain
}

func NewChainConfig(chains ...Chain) (ChainConfig, error) {
	cfg := ChainConfig{chains: make(map[Variant]Chain, len(chains))}
	for _, chain := range chains {
		if err := chain.Validate(); err != nil {
			return ChainConfig{}, err
		}
		if _, exists := cfg.chains[chain.Variant]; exists {
			return ChainConfig{}, fmt.Errorf("%w: %s defined twice", ErrInvalidChain, chain.Variant)
		}
		cfg.chains[chain.Variant] = chain
	}
	for _, v := range Variants {
		if _, ok := cfg.chains[v]; !ok {
			return ChainConfig{}, fmt.Errorf("%w: missing chain for %s", ErrInvalidChain, v)
		}
	}
	return cfg, nil
}

func (c ChainConfig) Chain(v Variant) (Chain, error) {
	chain, ok := c.chains[v]
	if !ok {
		return Chain{}, ErrUnknownVariant
	}
	return chain, nil
}

// DefaultChains is the built-in routing used when no chain file is configured
func DefaultChains() []Chain {
	return []Chain{
		{
			Variant: VariantReimbursement,
			Stages: []Stage{
				{Role: user.RoleManager, From: StatusPendingManager, Accept: StatusPendingHR, Reject: StatusRejected},
				{Role: user.RoleHR, From: StatusPendingHR, Accept: StatusPendingFinance, Reject: StatusRejected},
				{Role: user.RoleFinance, From: StatusPendingFinance, Accept: StatusApproved, Reject: StatusRejected},
			},
		},
		{
			Variant: VariantTimesheet,
			Stages: []Stage{
				{Role: user.RoleManager, From: StatusPendingManager, Accept: StatusPendingHR, Reject: StatusRejected},
				{Role: user.RoleHR, From: StatusPendingHR, Accept: StatusApproved, Reject: StatusRejected},
			},
			Override: &Override{Role: user.RoleAdmin, Status: StatusOverridden},
		},
		{
			Variant: VariantLeave,
			Stages: []Stage{
				{Role: user.RoleManager, From: StatusPendingManager, Accept: StatusPendingHR, Reject: StatusRejected},
				{Role: user.RoleHR, From: StatusPendingHR, Accept: StatusApproved, Reject: StatusRejected},
			},
		},
	}
}

func DefaultChainConfig() ChainConfig {
	cfg, err := NewChainConfig(DefaultChains()...)
	if err != nil {
		panic(err)
	}
	return cfg
}
