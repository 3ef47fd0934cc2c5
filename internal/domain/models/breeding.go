package models

import "time"

// PairStatus describes whether a breeding pair is still in production.
type PairStatus string

const (
	PairActive   PairStatus = "active"
	PairInactive PairStatus = "inactive"
)

// ClutchStatus tracks the lifecycle of a laid clutch.
type ClutchStatus string

const (
	ClutchIncubating ClutchStatus = "incubating"
	ClutchHatched    ClutchStatus = "hatched"
	ClutchFailed     ClutchStatus = "failed"
)

// HatchlingStatus tracks a juvenile bird until it leaves the aviary.
type HatchlingStatus string

const (
	HatchlingAlive HatchlingStatus = "alive"
	HatchlingSold  HatchlingStatus = "sold"
	HatchlingDead  HatchlingStatus = "dead"
)

// TargetType identifies which kind of entity a record or alert points at.
type TargetType string

const (
	TargetPair      TargetType = "pair"
	TargetHatchling TargetType = "hatchling"
)

// HealthRecordType distinguishes the kinds of health interventions we log.
type HealthRecordType string

const (
	HealthVaccination HealthRecordType = "vaccination"
	HealthTreatment   HealthRecordType = "treatment"
	HealthProphylaxis HealthRecordType = "prophylaxis"
)

// BreedingPair is a registered couple occupying one nest.
type BreedingPair struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	OwnerID   string     `bson:"owner_id" json:"owner_id"`
	NestLabel string     `bson:"nest_label" json:"nest_label"`
	Status    PairStatus `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// EggClutch captures up to two eggs laid together by one pair in one cycle.
type EggClutch struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	OwnerID      string       `bson:"owner_id" json:"owner_id"`
	CoupleID     string       `bson:"couple_id" json:"couple_id"`
	Egg1LaidDate *time.Time   `bson:"egg1_laid_date,omitempty" json:"egg1_laid_date,omitempty"`
	Egg2LaidDate *time.Time   `bson:"egg2_laid_date,omitempty" json:"egg2_laid_date,omitempty"`
	Hatch1Date   *time.Time   `bson:"hatch1_date,omitempty" json:"hatch1_date,omitempty"`
	Hatch2Date   *time.Time   `bson:"hatch2_date,omitempty" json:"hatch2_date,omitempty"`
	Status       ClutchStatus `bson:"status" json:"status"`
}

// Hatchling is a juvenile bird tracked from hatch until sale or death.
type Hatchling struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	OwnerID     string          `bson:"owner_id" json:"owner_id"`
	CoupleID    string          `bson:"couple_id" json:"couple_id"`
	BirthDate   time.Time       `bson:"birth_date" json:"birth_date"`
	WeaningDate *time.Time      `bson:"weaning_date,omitempty" json:"weaning_date,omitempty"`
	Status      HatchlingStatus `bson:"status" json:"status"`
}

// HealthRecord logs a health intervention performed on a pair or hatchling.
type HealthRecord struct {
	ID            string           `bson:"_id,omitempty" json:"id"`
	OwnerID       string           `bson:"owner_id" json:"owner_id"`
	TargetType    TargetType       `bson:"target_type" json:"target_type"`
	TargetID      string           `bson:"target_id" json:"target_id"`
	RecordType    HealthRecordType `bson:"record_type" json:"record_type"`
	PerformedDate time.Time        `bson:"performed_date" json:"performed_date"`
	NextDueDate   *time.Time       `bson:"next_due_date,omitempty" json:"next_due_date,omitempty"`
	Notes         string           `bson:"notes,omitempty" json:"notes,omitempty"`
}

// SaleRecord logs a sale transaction. TargetID is empty for free-form sales
// that do not reference a tracked bird.
type SaleRecord struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	OwnerID    string     `bson:"owner_id" json:"owner_id"`
	TargetType TargetType `bson:"target_type,omitempty" json:"target_type,omitempty"`
	TargetID   string     `bson:"target_id,omitempty" json:"target_id,omitempty"`
	Date       time.Time  `bson:"date" json:"date"`
	Amount     float64    `bson:"amount" json:"amount"`
}

// Owner is an account that owns breeding records and receives alerts.
type Owner struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Active bool   `bson:"active" json:"active"`
}

// OwnerSnapshot is the read-only view of one owner's breeding records that the
// rule evaluators operate on.
type OwnerSnapshot struct {
	OwnerID       string
	Pairs         []BreedingPair
	Clutches      []EggClutch
	Hatchlings    []Hatchling
	HealthRecords []HealthRecord
	SaleRecords   []SaleRecord
}
