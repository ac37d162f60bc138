package enums

import "fmt"

// MaterialFlow distinguishes bill-of-material inputs from finished goods.
type MaterialFlow string

const (
	MaterialFlowBOM MaterialFlow = "BOM"
	MaterialFlowFIN MaterialFlow = "FIN"
)

var validMaterialFlows = []MaterialFlow{
	MaterialFlowBOM,
	MaterialFlowFIN,
}

func (f MaterialFlow) String() string {
	return string(f)
}

func (f MaterialFlow) IsValid() bool {
	for _, candidate := range validMaterialFlows {
		if candidate == f {
			return true
		}
	}
	return false
}

func ParseMaterialFlow(value string) (MaterialFlow, error) {
	for _, candidate := range validMaterialFlows {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material flow %q", value)
}

// MaterialClass groups materials; each class owns a numeric code prefix.
type MaterialClass string

const (
	MaterialClassA MaterialClass = "A"
	MaterialClassB MaterialClass = "B"
	MaterialClassC MaterialClass = "C"
	MaterialClassD MaterialClass = "D"
	MaterialClassF MaterialClass = "F"
)

var materialClassPrefixes = map[MaterialClass]string{
	MaterialClassA: "1",
	MaterialClassB: "2",
	MaterialClassC: "3",
	MaterialClassD: "4",
	MaterialClassF: "5",
}

func (c MaterialClass) String() string {
	return string(c)
}

func (c MaterialClass) IsValid() bool {
	_, ok := materialClassPrefixes[c]
	return ok
}

// CodePrefix returns the leading digit of material codes in the class.
func (c MaterialClass) CodePrefix() string {
	return materialClassPrefixes[c]
}

func ParseMaterialClass(value string) (MaterialClass, error) {
	class := MaterialClass(value)
	if !class.IsValid() {
		return "", fmt.Errorf("invalid material class %q", value)
	}
	return class, nil
}

// MaterialStatus marks whether a master record is in use.
type MaterialStatus string

const (
	MaterialStatusActive   MaterialStatus = "active"
	MaterialStatusInactive MaterialStatus = "inactive"
)

func (s MaterialStatus) String() string {
	return string(s)
}

func (s MaterialStatus) IsValid() bool {
	return s == MaterialStatusActive || s == MaterialStatusInactive
}

func ParseMaterialStatus(value string) (MaterialStatus, error) {
	status := MaterialStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid material status %q", value)
	}
	return status, nil
}
