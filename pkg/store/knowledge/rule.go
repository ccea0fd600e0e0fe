package knowledge

import (
	"fmt"
	"strings"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

type RuleKind string

const (
	// RuleBranchGroup keys are branch trines such as "in-o-sul"; the pattern
	// matches when the year or day branch belongs to a trine and another
	// branch of the chart is one of its targets.
	RuleBranchGroup RuleKind = "branch_group"
	// RuleDayStemBranch keys are day stems; the pattern matches when any
	// branch of the chart is one of the stem's targets.
	RuleDayStemBranch RuleKind = "day_stem_branch"
	// RuleDayPillar matches when the day pillar is one of Pillars.
	RuleDayPillar RuleKind = "day_pillar"
)

// Rule is the matching predicate of a symbolic pattern.
type Rule struct {
	Kind    RuleKind            `yaml:"kind" json:"kind"`
	Targets map[string][]string `yaml:"targets,omitempty" json:"targets,omitempty"`
	Pillars []string            `yaml:"pillars,omitempty" json:"pillars,omitempty"`
}

func (r *Rule) Validate() error {
	switch r.Kind {
	case RuleBranchGroup:
		if len(r.Targets) == 0 {
			return fmt.Errorf("rule %s needs targets", r.Kind)
		}
		for group, targets := range r.Targets {
			for _, b := range strings.Split(group, "-") {
				if _, err := domain.ParseBranch(b); err != nil {
					return err
				}
			}
			if err := validBranches(targets); err != nil {
				return err
			}
		}
	case RuleDayStemBranch:
		if len(r.Targets) == 0 {
			return fmt.Errorf("rule %s needs targets", r.Kind)
		}
		for stem, targets := range r.Targets {
			if _, err := domain.ParseStem(stem); err != nil {
				return err
			}
			if err := validBranches(targets); err != nil {
				return err
			}
		}
	case RuleDayPillar:
		if len(r.Pillars) == 0 {
			return fmt.Errorf("rule %s needs pillars", r.Kind)
		}
		for _, p := range r.Pillars {
			parts := strings.SplitN(p, "-", 2)
			if len(parts) != 2 {
				return fmt.Errorf("pillar %q is not stem-branch", p)
			}
			if _, err := domain.ParseStem(parts[0]); err != nil {
				return err
			}
			if _, err := domain.ParseBranch(parts[1]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}

func validBranches(keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty target list")
	}
	for _, k := range keys {
		if _, err := domain.ParseBranch(k); err != nil {
			return err
		}
	}
	return nil
}
