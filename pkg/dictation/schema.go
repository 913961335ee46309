package dictation

import "stillhouse/domain"

var distillationFields = []domain.DictationField{
	{Name: "distillation_start", Type: domain.FieldTypeString, Description: "time the run started, format HH:MM"},
	{Name: "heads_collection_start", Type: domain.FieldTypeString, Description: "format HH:MM"},
	{Name: "hearts_collection_start", Type: domain.FieldTypeString, Description: "format HH:MM"},
	{Name: "hearts_collection_stop", Type: domain.FieldTypeString, Description: "format HH:MM"},
	{Name: "power_level", Type: domain.FieldTypeString, Description: "one of '1', '1.5', '2', '2.5', '3', '3.5'"},
	{Name: "ethanol_amount", Type: domain.FieldTypeNumber},
	{Name: "water_into_still", Type: domain.FieldTypeNumber},
	{Name: "abv_of_charge", Type: domain.FieldTypeNumber},
	{Name: "tails_duration", Type: domain.FieldTypeNumber},
	{Name: "distillate_amount", Type: domain.FieldTypeNumber},
	{Name: "distillate_abv", Type: domain.FieldTypeNumber},
	{Name: "notes", Type: domain.FieldTypeString},
	{Name: "lower_plate_on", Type: domain.FieldTypeBoolean},
	{Name: "upper_plate_on", Type: domain.FieldTypeBoolean},
	{Name: "dephlegmator_on", Type: domain.FieldTypeBoolean},
}

var bottlingFields = []domain.DictationField{
	{Name: "bottling_start_time", Type: domain.FieldTypeString, Description: "format HH:MM"},
	{Name: "product", Type: domain.FieldTypeString, Description: `e.g. "Grapefruit base"`},
	{Name: "bottled_amount", Type: domain.FieldTypeNumber},
	{Name: "boxes_used", Type: domain.FieldTypeNumber, Description: "bottled_amount / 6 when the bottled amount is mentioned"},
	{Name: "lot_number", Type: domain.FieldTypeString},
	{Name: "notes", Type: domain.FieldTypeString},
}

const distillationHints = `Interpret phrases like "lower plate is on", "upper plate active", "dephlegmator off", "turn on the lower plate" to set the boolean values.`

// Fields returns the form schema for a log kind.
func Fields(kind string) ([]domain.DictationField, bool) {
	switch kind {
	case domain.LogKindDistillation:
		return distillationFields, true
	case domain.LogKindBottling:
		return bottlingFields, true
	default:
		return nil, false
	}
}
