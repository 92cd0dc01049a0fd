package configurator

import (
	"fmt"
	"strings"

	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
)

// ExemptionMode selects how exempt (eye/nose) surfaces are recognized.
type ExemptionMode int

const (
	// ExemptByName matches surface names against substrings.
	ExemptByName ExemptionMode = iota
	// ExemptByMaterial matches the material name against a sentinel.
	ExemptByMaterial
)

// Exemption decides which surfaces the fur color skips and which of those
// take the eye color. One convention applies to the whole asset set.
type Exemption struct {
	mode       ExemptionMode
	substrings []string
	sentinel   string
	eyeTargets []string
}

// NewExemption builds the rule from config. Name matching is case-insensitive.
func NewExemption(cfg config.ExemptionConfig) (Exemption, error) {
	e := Exemption{
		substrings: lower(cfg.Substrings),
		sentinel:   cfg.Sentinel,
		eyeTargets: lower(cfg.EyeTargets),
	}
	switch strings.ToLower(cfg.Mode) {
	case "", "name":
		e.mode = ExemptByName
		if len(e.substrings) == 0 {
			return Exemption{}, fmt.Errorf("exemption mode name needs substrings")
		}
	case "material":
		e.mode = ExemptByMaterial
		if e.sentinel == "" {
			return Exemption{}, fmt.Errorf("exemption mode material needs a sentinel")
		}
	default:
		return Exemption{}, fmt.Errorf("unknown exemption mode %q", cfg.Mode)
	}
	return e, nil
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(name string, subs []string) bool {
	name = strings.ToLower(name)
	for _, s := range subs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// Mode returns the configured convention.
func (e Exemption) Mode() ExemptionMode { return e.mode }

// Exempt reports whether s keeps its color when the fur is recolored.
func (e Exemption) Exempt(s *scene.Surface) bool {
	if e.mode == ExemptByMaterial {
		m := s.Material()
		return m != nil && m.Name == e.sentinel
	}
	return containsAny(s.Name, e.substrings)
}

// EyeTarget reports whether s takes the eye color: an exempt surface whose
// name matches an eye target, or any exempt surface when no targets are set.
func (e Exemption) EyeTarget(s *scene.Surface) bool {
	if !e.Exempt(s) {
		return false
	}
	if len(e.eyeTargets) == 0 {
		return true
	}
	return containsAny(s.Name, e.eyeTargets)
}
