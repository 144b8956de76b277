// Package particle enumerates MCNP6 particle types by their numeric id.
package particle

import "strings"

// Particle is an MCNP6 particle id (1-37). The zero value is Unknown.
type Particle uint8

const (
	Unknown  Particle = 0
	Neutron  Particle = 1
	Photon   Particle = 2
	Electron Particle = 3
	Proton   Particle = 9
	Deuteron Particle = 33
	Triton   Particle = 34
	Helion   Particle = 35
	Alpha    Particle = 36
	HeavyIon Particle = 37
)

// Max is the highest particle id.
const Max = HeavyIon

type info struct {
	name       string
	designator string
}

var table = [...]info{
	{"unknown", "?"},
	{"neutron", "n"},
	{"photon", "p"},
	{"electron", "e"},
	{"mu_minus", "|"},
	{"anti_neutron", "q"},
	{"electron_neutrino", "u"},
	{"muon_neutrino", "v"},
	{"positron", "f"},
	{"proton", "h"},
	{"lambda_baryon", "l"},
	{"pos_sigma_baryon", "+"},
	{"neg_sigma_baryon", "-"},
	{"cascade", "x"},
	{"neg_cascade", "y"},
	{"omega_baryon", "o"},
	{"mu_plus", "!"},
	{"anti_electron_neutrino", "<"},
	{"anti_muon_neutrino", ">"},
	{"anti_proton", "g"},
	{"pos_pion", "/"},
	{"neu_pion", "z"},
	{"pos_kaon", "k"},
	{"kaon_short", "%"},
	{"kaon_long", "^"},
	{"anti_lambda_baryon", "b"},
	{"anti_pos_sigma_baryon", "_"},
	{"anti_neg_sigma_baryon", "~"},
	{"anti_cascade", "c"},
	{"pos_cascade", "w"},
	{"anti_omega", "@"},
	{"neg_pion", "*"},
	{"neg_kaon", "?"},
	{"deuteron", "d"},
	{"triton", "t"},
	{"helion", "s"},
	{"alpha", "a"},
	{"heavy_ion", "#"},
}

// Valid reports whether p is a known particle id.
func (p Particle) Valid() bool {
	return p >= Neutron && p <= Max
}

// String returns the lower-case particle name, e.g. "neutron".
func (p Particle) String() string {
	if int(p) >= len(table) {
		return table[0].name
	}
	return table[p].name
}

// Designator returns the MCNP particle designator, e.g. "n" for neutrons.
func (p Particle) Designator() string {
	if !p.Valid() {
		return table[0].designator
	}
	return table[p].designator
}

// Parse looks up a particle by name (case-insensitive, spaces or hyphens
// allowed in place of underscores). Single-character designators are not
// accepted because several collide with ordinary words.
func Parse(name string) (Particle, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	for id := Neutron; id <= Max; id++ {
		if table[id].name == n {
			return id, true
		}
	}
	return Unknown, false
}
