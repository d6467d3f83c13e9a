package models

import (
	"time"
)

// ComputationRecord is one persisted invocation of a numerical method.
// Records are append-only: they are created once and never mutated.
type ComputationRecord struct {
	Seq       uint      `gorm:"primaryKey;autoIncrement" json:"-" bson:"-"`
	ID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id" bson:"_id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	Method    string    `gorm:"type:varchar(64);index" json:"method,omitempty" bson:"method,omitempty"`
	Equation  string    `gorm:"type:text;not null" json:"equation" bson:"equation"`
	A         float64   `json:"a" bson:"a"`
	B         float64   `json:"b" bson:"b"`
	Epsilon   float64   `json:"epsilon" bson:"epsilon"`
}

// TableName keeps the collection name identical across the SQL and document backends.
func (ComputationRecord) TableName() string {
	return "computations"
}
