package entity

import "fmt"

type EquipmentType string

const (
	EquipmentTypeFoil  EquipmentType = "FOIL"
	EquipmentTypeEpee  EquipmentType = "EPEE"
	EquipmentTypeSabre EquipmentType = "SABRE"
	EquipmentTypeMask  EquipmentType = "MASK"
)

// ValidEquipmentTypes is the closed set of accepted equipment types.
var ValidEquipmentTypes = map[EquipmentType]bool{
	EquipmentTypeFoil:  true,
	EquipmentTypeEpee:  true,
	EquipmentTypeSabre: true,
	EquipmentTypeMask:  true,
}

func ParseEquipmentType(s string) (EquipmentType, error) {
	t := EquipmentType(s)
	if !ValidEquipmentTypes[t] {
		return "", fmt.Errorf("unknown equipment type %q", s)
	}
	return t, nil
}

// BaseStats are display strings only; nothing parses units out of them.
type BaseStats struct {
	Weight      string `json:"weight" yaml:"weight"`
	Flexibility string `json:"flexibility" yaml:"flexibility"`
	TargetArea  string `json:"targetArea" yaml:"targetArea"`
}

type Equipment struct {
	Id               string        `json:"id" yaml:"id"`
	Type             EquipmentType `json:"type" yaml:"type"`
	Name             string        `json:"name" yaml:"name"`
	ShortDescription string        `json:"shortDescription" yaml:"shortDescription"`
	BaseStats        BaseStats     `json:"baseStats" yaml:"baseStats"`
}
