package graph

import "github.com/mansoorceksport/gymgraph/internal/domain"

type bookResolver struct {
	b domain.Book
}

func (r *bookResolver) Title() *string {
	return &r.b.Title
}

func (r *bookResolver) Author() *string {
	return &r.b.Author
}
