package types

import "time"

// Application is an inbound submission from the public join-us form:
// a volunteer application, a partnership request, or a story submission.
type Application struct {
	ID    string `db:"id" json:"id" bson:"_id"`
	Name  string `db:"name" json:"name" bson:"name"`
	Email string `db:"email" json:"email" bson:"email"`
	Phone string `db:"phone" json:"phone" bson:"phone"`
	Type  string `db:"type" json:"type" bson:"type"`

	// Volunteer fields
	Interest string `db:"interest" json:"interest" bson:"interest"`
	Skills   string `db:"skills" json:"skills" bson:"skills"`

	// Partner fields
	Organization    string `db:"organization" json:"organization" bson:"organization"`
	PartnershipType string `db:"partnership_type" json:"partnershipType" bson:"partnershipType"`

	// Story fields
	StoryType string `db:"story_type" json:"storyType" bson:"storyType"`

	Message   string    `db:"message" json:"message" bson:"message"`
	Status    string    `db:"status" json:"status" bson:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

func (a *Application) EntityID() string {
	return a.ID
}

func (a *Application) StampNew(id string, at time.Time) {
	if a.ID == "" {
		a.ID = id
	}
	a.CreatedAt = at
	a.UpdatedAt = at
}

type ApplicationPatch struct {
	Name            *string `db:"name" json:"name" bson:"name"`
	Email           *string `db:"email" json:"email" bson:"email"`
	Phone           *string `db:"phone" json:"phone" bson:"phone"`
	Interest        *string `db:"interest" json:"interest" bson:"interest"`
	Skills          *string `db:"skills" json:"skills" bson:"skills"`
	Organization    *string `db:"organization" json:"organization" bson:"organization"`
	PartnershipType *string `db:"partnership_type" json:"partnershipType" bson:"partnershipType"`
	StoryType       *string `db:"story_type" json:"storyType" bson:"storyType"`
	Message         *string `db:"message" json:"message" bson:"message"`
	Status          *string `db:"status" json:"status" bson:"status"`
}

// Application type constants
const (
	ApplicationVolunteer = "volunteer"
	ApplicationPartner   = "partner"
	ApplicationStory     = "story"
)

// Application status constants
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidApplicationType(t string) bool {
	switch t {
	case ApplicationVolunteer, ApplicationPartner, ApplicationStory:
		return true
	}
	return false
}

func ValidApplicationStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}
