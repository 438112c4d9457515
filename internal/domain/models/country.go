package models

import "time"

// Country is the root of the reference-data hierarchy.
type Country struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// City belongs to a country.
type City struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CountryID int64     `json:"country_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Address belongs to a city; the country reference is denormalized.
type Address struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CityID    int64     `json:"city_id"`
	CountryID int64     `json:"country_id"`
	CreatedAt time.Time `json:"created_at"`
}
