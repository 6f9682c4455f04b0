// Package config loads the device roster a host application uses to map a
// serial port's reported serial number to the device family and channel set
// to construct against it. This is composition sugar, not part of the
// connection core: it never influences wire behavior, which is fixed by the
// APT family itself.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Family is the device family a roster entry names.
type Family string

const (
	FamilyMPC320 Family = "mpc320"
	FamilyMPC220 Family = "mpc220"
	FamilyK10CR1 Family = "k10cr1"
)

// Device is one entry in the roster: a serial port path or glob, the device
// family found there, and a human label for logging.
type Device struct {
	Name       string
	Port       string
	Family     Family
	SerialNumber string
}

// Roster is the parsed set of configured devices, keyed by Name.
type Roster map[string]Device

// Load reads an INI file shaped as one section per device:
//
//	[polarization-1]
//	port = /dev/ttyUSB0
//	family = mpc320
//	serial_number = 38123456
//
//	[waveplate-1]
//	port = /dev/ttyUSB1
//	family = k10cr1
//	serial_number = 55001234
func Load(path string) (Roster, error) {
	const op = "config.Load"
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roster := make(Roster)
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		family := Family(section.Key("family").String())
		switch family {
		case FamilyMPC320, FamilyMPC220, FamilyK10CR1:
		default:
			return nil, fmt.Errorf("%s: section %q: unknown family %q", op, section.Name(), family)
		}
		port := section.Key("port").String()
		if port == "" {
			return nil, fmt.Errorf("%s: section %q: missing port", op, section.Name())
		}
		roster[section.Name()] = Device{
			Name:         section.Name(),
			Port:         port,
			Family:       family,
			SerialNumber: section.Key("serial_number").String(),
		}
	}
	return roster, nil
}

// ByFamily returns the subset of the roster matching family, for a host
// program that wants to construct only one kind of controller at a time.
func (r Roster) ByFamily(family Family) []Device {
	var out []Device
	for _, d := range r {
		if d.Family == family {
			out = append(out, d)
		}
	}
	return out
}
