package models

import "time"

// DataRecord is one row of widget data, keyed by field name.
type DataRecord struct {
	ID          string         `firestore:"id" json:"_id"`
	ComponentID string         `firestore:"componentId" json:"componentId"`
	Data        map[string]any `firestore:"data" json:"data"`
	CreatedAt   time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `firestore:"updatedAt" json:"updatedAt"`
}
