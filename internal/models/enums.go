package models

import "fmt"

// GrenadeType is the kind of throwable a setup uses
type GrenadeType string

const (
	GrenadeSmoke   GrenadeType = "SMOKE"
	GrenadeHE      GrenadeType = "HE"
	GrenadeFlash   GrenadeType = "FLASH"
	GrenadeMolotov GrenadeType = "MOLOTOV"
)

// GrenadeTypes lists every grenade type in display order
var GrenadeTypes = []GrenadeType{GrenadeSmoke, GrenadeHE, GrenadeFlash, GrenadeMolotov}

// Valid reports whether t is a known grenade type
func (t GrenadeType) Valid() bool {
	switch t {
	case GrenadeSmoke, GrenadeHE, GrenadeFlash, GrenadeMolotov:
		return true
	}
	return false
}

// ParseGrenadeType converts a raw value into a GrenadeType
func ParseGrenadeType(s string) (GrenadeType, error) {
	t := GrenadeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown grenade type %q", s)
	}
	return t, nil
}

// Side is the team a setup is thrown for
type Side string

const (
	SideT  Side = "T"  // attack
	SideCT Side = "CT" // defense
)

// Sides lists every side in display order
var Sides = []Side{SideT, SideCT}

// Valid reports whether s is a known side
func (s Side) Valid() bool {
	return s == SideT || s == SideCT
}

// ParseSide converts a raw value into a Side
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("unknown side %q", s)
	}
	return side, nil
}

// CsMap identifies a map in the catalog
type CsMap string

const (
	MapAncient  CsMap = "ANCIENT"
	MapAnubis   CsMap = "ANUBIS"
	MapCache    CsMap = "CACHE"
	MapDust2    CsMap = "DUST2"
	MapInferno  CsMap = "INFERNO"
	MapMirage   CsMap = "MIRAGE"
	MapNuke     CsMap = "NUKE"
	MapOverpass CsMap = "OVERPASS"
	MapTrain    CsMap = "TRAIN"
	MapVertigo  CsMap = "VERTIGO"
)

// Maps lists every supported map
var Maps = []CsMap{
	MapAncient, MapAnubis, MapCache, MapDust2, MapInferno,
	MapMirage, MapNuke, MapOverpass, MapTrain, MapVertigo,
}

// Valid reports whether m is a supported map
func (m CsMap) Valid() bool {
	for _, known := range Maps {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMap converts a raw value into a CsMap
func ParseMap(s string) (CsMap, error) {
	m := CsMap(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown map %q", s)
	}
	return m, nil
}

const (
	MinDifficulty = 1
	MaxDifficulty = 3
)

// ValidDifficulty reports whether d is within the difficulty scale
func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}

// EnumValues is the admin-facing list of accepted enumeration values
type EnumValues struct {
	GrenadeTypes []GrenadeType `json:"grenade_types"`
	GrenadeSides []Side        `json:"grenade_sides"`
	Maps         []CsMap       `json:"maps"`
}

// AllEnumValues returns every accepted enumeration value
func AllEnumValues() EnumValues {
	return EnumValues{GrenadeTypes: GrenadeTypes, GrenadeSides: Sides, Maps: Maps}
}
