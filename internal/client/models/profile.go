package models

type Profile struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	BirthDate    string   `json:"birth_date"`
	Gender       string   `json:"gender"`
	InterestedIn string   `json:"interested_in"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	Photos       []Photo  `json:"photos,omitempty"`
}

type Photo struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// ProfileParams carries the writable subset of a profile for create/update
// calls. Nil/empty fields are omitted so partial updates stay partial.
type ProfileParams struct {
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	BirthDate    string   `json:"birth_date,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	InterestedIn string   `json:"interested_in,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
}
