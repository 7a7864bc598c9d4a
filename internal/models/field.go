package models

type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "datetime"
	FieldEmail    FieldType = "email"
	FieldURL      FieldType = "url"
)

// FieldTypes lists the supported field types in display order.
var FieldTypes = []FieldType{
	FieldString, FieldNumber, FieldBoolean, FieldDate, FieldDateTime, FieldEmail, FieldURL,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// FieldDescriptor declares one column of a component's data schema. Order matters:
// the first LockCount entries of a schema are immutable once data exists.
type FieldDescriptor struct {
	Name     string    `firestore:"name" json:"name"`
	Type     FieldType `firestore:"type" json:"type"`
	Required bool      `firestore:"required" json:"required"`
}
