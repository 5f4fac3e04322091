package domain

// Routine is a group of exercises that are done one after the other.
// No store collection backs routines yet.
type Routine struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Name      string     `json:"name" bson:"name"`
	Exercises []Exercise `json:"exercises" bson:"exercises"`
}
