package domain

// Book is a demo entity served from memory, not from the store
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Books returns the fixed book list. Each call returns a fresh slice.
func Books() []Book {
	return []Book{
		{Title: "The Awakening", Author: "Kate Chopin"},
		{Title: "City of Glass", Author: "Paul Auster"},
	}
}
