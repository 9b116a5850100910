package person

import "time"

// Person is the only entity exposed by the API.
//
// ID is assigned by the store at creation and never changes; Name is the only
// field clients can modify.
type Person struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Data is the "data" member of envelopes that carry a person.
type Data struct {
	Person *Person `json:"person"`
}
