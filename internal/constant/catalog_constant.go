package constant

import "en-garde-armory-be/internal/entity"

// EquipmentData is the compiled-in showcase catalog, in display order.
var EquipmentData = []entity.Equipment{
	{
		Id:               "foil-01",
		Type:             entity.EquipmentTypeFoil,
		Name:             "Standard Competitive Foil",
		ShortDescription: "The lightweight weapon used for teaching fencing principles. Targets the torso only.",
		BaseStats: entity.BaseStats{
			Weight:      "< 500g",
			Flexibility: "High",
			TargetArea:  "Torso (Groin to Neck)",
		},
	},
	{
		Id:               "epee-01",
		Type:             entity.EquipmentTypeEpee,
		Name:             "Grand Prix Epee",
		ShortDescription: "A heavier thrusting weapon based on the dueling sword. The entire body is a valid target.",
		BaseStats: entity.BaseStats{
			Weight:      "< 770g",
			Flexibility: "Moderate (Stiff)",
			TargetArea:  "Full Body",
		},
	},
	{
		Id:               "sabre-01",
		Type:             entity.EquipmentTypeSabre,
		Name:             "Hungarian Sabre",
		ShortDescription: "A cutting and thrusting weapon derived from cavalry swords. Fast-paced and aggressive.",
		BaseStats: entity.BaseStats{
			Weight:      "< 500g",
			Flexibility: "Variable",
			TargetArea:  "Upper Body (Above Waist)",
		},
	},
	{
		Id:               "mask-01",
		Type:             entity.EquipmentTypeMask,
		Name:             "FIE 1600N Master Mask",
		ShortDescription: "High-grade stainless steel mesh mask offering maximum protection for international competition.",
		BaseStats: entity.BaseStats{
			Weight:      "1.2kg",
			Flexibility: "None (Rigid)",
			TargetArea:  "Protective Gear",
		},
	},
}
