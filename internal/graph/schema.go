package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
)

// Schema is the SDL served at /graphql
const Schema = `
	schema {
		query: Query
	}

	type Query {
		"Get all existing routines"
		allRoutines: [Routine!]!

		"Get exercise. Without an id the configured default exercise is returned."
		getExercise(id: ID): Exercise!

		books: [Book]
	}

	type Book {
		title: String
		author: String
	}

	"A routine is a group of exercises that are done one after the other"
	type Routine {
		id: ID!
		name: String!
		exercises: [Exercise]
	}

	type Exercise {
		name: String!
		description: String
		"The main muscle the exercise is working"
		primaryMuscle: String!
		"Array of multiple secondary muscles worked on"
		secondaryMuscles: [String]
	}
`

// maxQueryDepth bounds nesting; the schema itself is three levels deep
const maxQueryDepth = 10

// NewSchema parses Schema against the root resolver
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r,
		graphql.MaxDepth(maxQueryDepth),
	)
}

// MustNewSchema is NewSchema for package initialisation and tests
func MustNewSchema(r *Resolver) *graphql.Schema {
	s, err := NewSchema(r)
	if err != nil {
		panic(err)
	}
	return s
}
