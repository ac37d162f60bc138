package enums

import "fmt"

// Unit of measure shared by materials and stock entries.
type Unit string

const (
	UnitEach     Unit = "EA"
	UnitKilogram Unit = "KG"
	UnitMeter    Unit = "M"
)

var validUnits = []Unit{
	UnitEach,
	UnitKilogram,
	UnitMeter,
}

func (u Unit) String() string {
	return string(u)
}

func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}

// EntryType is the direction of a stock movement.
type EntryType string

const (
	EntryTypeCredit EntryType = "Credit"
	EntryTypeDebit  EntryType = "Debit"
)

func (e EntryType) String() string {
	return string(e)
}

func (e EntryType) IsValid() bool {
	return e == EntryTypeCredit || e == EntryTypeDebit
}

func ParseEntryType(value string) (EntryType, error) {
	entryType := EntryType(value)
	if !entryType.IsValid() {
		return "", fmt.Errorf("invalid entry type %q", value)
	}
	return entryType, nil
}
