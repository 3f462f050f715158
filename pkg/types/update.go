package types

import "time"

// Update is a news post shown on the public site, newest first.
type Update struct {
	ID          string    `db:"id" json:"id" bson:"_id"`
	Title       string    `db:"title" json:"title" bson:"title"`
	Description string    `db:"description" json:"description" bson:"description"`
	MediaType   string    `db:"media_type" json:"mediaType" bson:"mediaType"`
	MediaURL    string    `db:"media_url" json:"mediaUrl" bson:"mediaUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

func (u *Update) EntityID() string {
	return u.ID
}

func (u *Update) StampNew(id string, at time.Time) {
	if u.ID == "" {
		u.ID = id
	}
	u.CreatedAt = at
	u.UpdatedAt = at
}

type UpdatePatch struct {
	Title       *string `db:"title" json:"title" bson:"title"`
	Description *string `db:"description" json:"description" bson:"description"`
	MediaType   *string `db:"media_type" json:"mediaType" bson:"mediaType"`
	MediaURL    *string `db:"media_url" json:"mediaUrl" bson:"mediaUrl"`
}

// Media type constants
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

func ValidMediaType(mediaType string) bool {
	return mediaType == MediaTypeImage || mediaType == MediaTypeVideo
}
