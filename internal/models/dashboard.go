package models

import "time"

type Visibility string

const (
	VisibilityPrivate           Visibility = "private"
	VisibilityPublic            Visibility = "public"
	VisibilityPasswordProtected Visibility = "password-protected"
)

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityPasswordProtected:
		return true
	}
	return false
}

// Dashboard is a page of widgets. Components live in their own collection and
// are attached on read.
type Dashboard struct {
	Slug         string      `firestore:"slug" json:"slug"`
	OwnerUID     string      `firestore:"ownerUid" json:"ownerUid,omitempty"`
	Name         string      `firestore:"name" json:"name"`
	Description  string      `firestore:"description,omitempty" json:"description,omitempty"`
	Thumbnail    string      `firestore:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Visibility   Visibility  `firestore:"visibility" json:"visibility"`
	PasswordHash string      `firestore:"passwordHash,omitempty" json:"-"`
	Components   []Component `firestore:"-" json:"components"`
	CreatedAt    time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `firestore:"updatedAt" json:"updatedAt"`
}

// Component finds a component by id.
func (d *Dashboard) Component(componentID string) (*Component, bool) {
	for i := range d.Components {
		if d.Components[i].ComponentID == componentID {
			return &d.Components[i], true
		}
	}
	return nil, false
}
