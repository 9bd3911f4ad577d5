package entity

// ModelVariant tells the presentation client which procedural model renders an equipment type.
type ModelVariant struct {
	Type         EquipmentType `json:"type"`
	Component    string        `json:"component"`
	RotationStep float64       `json:"rotationStep"` // radians per frame around Y while auto-rotating
}

const DefaultRotationStep = 0.005

// ModelVariants has exactly one entry per EquipmentType.
var ModelVariants = map[EquipmentType]ModelVariant{
	EquipmentTypeFoil:  {Type: EquipmentTypeFoil, Component: "FoilModel", RotationStep: DefaultRotationStep},
	EquipmentTypeEpee:  {Type: EquipmentTypeEpee, Component: "EpeeModel", RotationStep: DefaultRotationStep},
	EquipmentTypeSabre: {Type: EquipmentTypeSabre, Component: "SabreModel", RotationStep: DefaultRotationStep},
	EquipmentTypeMask:  {Type: EquipmentTypeMask, Component: "MaskModel", RotationStep: DefaultRotationStep},
}
