package model

import "time"

// TravelType classifies a post. The set is closed.
type TravelType string

const (
	TravelAdventure TravelType = "Adventure"
	TravelCultural  TravelType = "Cultural"
	TravelFamily    TravelType = "Family"
	TravelHoneymoon TravelType = "Honeymoon"
	TravelSolo      TravelType = "Solo"
	TravelGroup     TravelType = "Group"
	TravelLuxury    TravelType = "Luxury"
	TravelBusiness  TravelType = "Business"
)

// TravelTypes lists every accepted category in display order.
var TravelTypes = []TravelType{
	TravelAdventure,
	TravelCultural,
	TravelFamily,
	TravelHoneymoon,
	TravelSolo,
	TravelGroup,
	TravelLuxury,
	TravelBusiness,
}

// Valid reports whether t is one of the known categories (case-sensitive).
func (t TravelType) Valid() bool {
	for _, known := range TravelTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Post is a blog entry. Deletion is physical.
type Post struct {
	ID            uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string      `json:"title" gorm:"size:255;not null"`
	Content       string      `json:"content" gorm:"type:text;not null"`
	TravelType    *TravelType `json:"travelType" gorm:"type:varchar(32);index"`
	ImageURL      *string     `json:"imageUrl" gorm:"size:1024"`
	ImagePublicID *string     `json:"imagePublicId" gorm:"size:255"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// HasImage reports whether an image is attached.
func (p *Post) HasImage() bool {
	return p.ImagePublicID != nil && *p.ImagePublicID != ""
}

// TravelTypeStat is one row of the per-category post count.
type TravelTypeStat struct {
	TravelType *TravelType `json:"travelType"`
	Count      int64       `json:"count"`
}
