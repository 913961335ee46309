package entities

import (
	"time"

	"github.com/google/uuid"
)

type DistillationLog struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID                uuid.UUID `gorm:"index" json:"user_id"`
	Date                  string    `gorm:"index" json:"date"`
	RecipeName            string    `json:"recipe_name"`
	FinalProduct          string    `json:"final_product"`
	DistillationStart     string    `json:"distillation_start"`
	PowerLevel            string    `json:"power_level"`
	EthanolAmount         float64   `json:"ethanol_amount"`
	WaterIntoStill        float64   `json:"water_into_still"`
	ABVOfCharge           float64   `json:"abv_of_charge"`
	HeadsCollectionStart  string    `json:"heads_collection_start"`
	HeartsCollectionStart string    `json:"hearts_collection_start"`
	HeartsCollectionStop  string    `json:"hearts_collection_stop"`
	TailsDuration         float64   `json:"tails_duration"`
	DistillateAmount      float64   `json:"distillate_amount"`
	DistillateABV         float64   `json:"distillate_abv"`
	Notes                 string    `gorm:"type:text" json:"notes"`
	LowerPlateOn          bool      `json:"lower_plate_on"`
	UpperPlateOn          bool      `json:"upper_plate_on"`
	DephlegmatorOn        bool      `json:"dephlegmator_on"`
	RecordedAt            time.Time `json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

type BottlingLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID `gorm:"index" json:"user_id"`
	Date              string    `gorm:"index" json:"date"`
	BottlingStartTime string    `json:"bottling_start_time"`
	Product           string    `json:"product"`
	BottledAmount     int       `json:"bottled_amount"`
	BoxesUsed         int       `json:"boxes_used"`
	LotNumber         string    `json:"lot_number"`
	Notes             string    `gorm:"type:text" json:"notes"`
	RecordedAt        time.Time `json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
