package domain

import "errors"

const (
	LogKindDistillation = "distillation"
	LogKindBottling     = "bottling"

	BottlesPerBox = 6
)

var (
	MessageSuccessSubmitDistillation = "distillation log saved successfully"
	MessageSuccessSubmitBottling     = "bottling log saved successfully"

	MessageFailedSubmitDistillation = "failed to save distillation log"
	MessageFailedSubmitBottling     = "failed to save bottling log"

	ErrSaveProductionLog = errors.New("failed to persist production log")
)

type (
	DistillationLogRequest struct {
		Date                  string  `json:"date" validate:"required"`
		RecipeName            string  `json:"recipe_name" validate:"required"`
		FinalProduct          string  `json:"final_product"`
		DistillationStart     string  `json:"distillation_start"`
		PowerLevel            string  `json:"power_level" validate:"omitempty,oneof=1 1.5 2 2.5 3 3.5"`
		EthanolAmount         float64 `json:"ethanol_amount" validate:"gte=0"`
		WaterIntoStill        float64 `json:"water_into_still" validate:"gte=0"`
		ABVOfCharge           float64 `json:"abv_of_charge" validate:"gte=0,lte=100"`
		HeadsCollectionStart  string  `json:"heads_collection_start"`
		HeartsCollectionStart string  `json:"hearts_collection_start"`
		HeartsCollectionStop  string  `json:"hearts_collection_stop"`
		TailsDuration         float64 `json:"tails_duration" validate:"gte=0"`
		DistillateAmount      float64 `json:"distillate_amount" validate:"gte=0"`
		DistillateABV         float64 `json:"distillate_abv" validate:"gte=0,lte=100"`
		Notes                 string  `json:"notes"`
		LowerPlateOn          bool    `json:"lower_plate_on"`
		UpperPlateOn          bool    `json:"upper_plate_on"`
		DephlegmatorOn        bool    `json:"dephlegmator_on"`
	}

	// BottlingLogRequest accepts boxes_used so old clients keep working, but
	// the stored value is always derived from BottledAmount.
	BottlingLogRequest struct {
		Date              string `json:"date" validate:"required"`
		BottlingStartTime string `json:"bottling_start_time"`
		Product           string `json:"product" validate:"required"`
		BottledAmount     int    `json:"bottled_amount" validate:"gte=0"`
		BoxesUsed         int    `json:"boxes_used"`
		LotNumber         string `json:"lot_number"`
		Notes             string `json:"notes"`
	}

	// DeductionReport describes the inventory side effects of one submission.
	// Misses are not errors. MissingRecipe names the recipe or bottling
	// definition that was not found. Error is set only when the deduction
	// step failed after the log itself was saved.
	DeductionReport struct {
		Applied       []StockDeduction `json:"applied"`
		MissingRecipe string           `json:"missing_recipe,omitempty"`
		MissingItems  []string         `json:"missing_items,omitempty"`
		Error         string           `json:"error,omitempty"`
	}

	SubmissionResponse struct {
		Log       any             `json:"log"`
		Deduction DeductionReport `json:"deduction"`
	}
)
