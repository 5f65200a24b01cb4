package model

import "github.com/lib/pq"

type Hospital struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Address     string         `json:"address" db:"address"`
	Latitude    *string        `json:"latitude,omitempty" db:"latitude"`
	Longitude   *string        `json:"longitude,omitempty" db:"longitude"`
	Specialties pq.StringArray `json:"specialties" db:"specialties"`
	Rating      *int           `json:"rating" db:"rating"`
	ReviewCount *int           `json:"reviewCount" db:"review_count"`
	Phone       *string        `json:"phone,omitempty" db:"phone"`
	Website     *string        `json:"website,omitempty" db:"website"`
	// RatingStars is Rating in tenths of a star converted to stars.
	RatingStars float64 `json:"ratingStars" db:"-"`
}

// WithStars fills RatingStars from Rating.
func (h Hospital) WithStars() Hospital {
	if h.Rating != nil {
		h.RatingStars = float64(*h.Rating) / 10
	}
	if h.Specialties == nil {
		h.Specialties = pq.StringArray{}
	}
	return h
}
