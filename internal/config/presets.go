package config

import "sort"

type Preset struct {
	Name        string
	Description string
	Orbit       OrbitConfig
}

var Presets = map[string]*Preset{
	"elliptical": {
		Name: "elliptical", Description: "bound orbit between r≈8 and r≈16.7",
		Orbit: OrbitConfig{Energy: 0.98, AngularMomentum: 3.9, R0: 8, MaxSteps: 3000},
	},
	"circular": {
		Name: "circular", Description: "near-circular orbit at r=10",
		Orbit: OrbitConfig{Energy: 0.9562, AngularMomentum: 3.7796, R0: 10, MaxSteps: 2000},
	},
	"precession": {
		Name: "precession", Description: "wide rosette between r≈9 and r≈26",
		Orbit: OrbitConfig{Energy: 0.975, AngularMomentum: 4.2, R0: 9, MaxSteps: 5000},
	},
	"hyperbolic": {
		Name: "hyperbolic", Description: "wide bound orbit leaving through the r=50 cutoff",
		Orbit: OrbitConfig{Energy: 1.05, AngularMomentum: 4.5, R0: 8, MaxSteps: 2000},
	},
	"spiral": {
		Name: "spiral", Description: "low angular momentum plunge into the horizon",
		Orbit: OrbitConfig{Energy: 0.95, AngularMomentum: 3.5, R0: 10, MaxSteps: 1500},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
