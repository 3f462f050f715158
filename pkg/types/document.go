package types

import "time"

// Document is the metadata record for an uploaded file. The binary itself
// lives in blob storage; FileURL points at it.
type Document struct {
	ID          string    `db:"id" json:"id" bson:"_id"`
	Title       string    `db:"title" json:"title" bson:"title"`
	Description string    `db:"description" json:"description" bson:"description"`
	Category    string    `db:"category" json:"category" bson:"category"`
	FileName    string    `db:"file_name" json:"fileName" bson:"fileName"`
	FileURL     string    `db:"file_url" json:"fileUrl" bson:"fileUrl"`
	FileSize    int64     `db:"file_size" json:"fileSize" bson:"fileSize"`
	FileType    string    `db:"file_type" json:"fileType" bson:"fileType"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

func (d *Document) EntityID() string {
	return d.ID
}

func (d *Document) StampNew(id string, at time.Time) {
	if d.ID == "" {
		d.ID = id
	}
	d.CreatedAt = at
	d.UpdatedAt = at
}

// DocumentPatch carries the mutable document fields. Nil fields are left
// untouched by the stores.
type DocumentPatch struct {
	Title       *string `db:"title" json:"title" bson:"title"`
	Description *string `db:"description" json:"description" bson:"description"`
	Category    *string `db:"category" json:"category" bson:"category"`
}

// Document category constants
const (
	CategoryReport     = "report"
	CategoryFinancial  = "financial"
	CategoryPolicy     = "policy"
	CategoryNewsletter = "newsletter"
	CategoryBrochure   = "brochure"
	CategoryOther      = "other"
)

var documentCategories = map[string]struct{}{
	CategoryReport:     {},
	CategoryFinancial:  {},
	CategoryPolicy:     {},
	CategoryNewsletter: {},
	CategoryBrochure:   {},
	CategoryOther:      {},
}

func ValidDocumentCategory(category string) bool {
	_, ok := documentCategories[category]
	return ok
}
