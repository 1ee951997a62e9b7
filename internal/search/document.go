// Package search provides full-text catalog search using Bleve.
// It indexes book records for fuzzy, stemmed queries across title,
// author, and description, with faceted genre and shelf filtering.
package search

import (
	"github.com/shelfline/shelfline-server/internal/domain"
)

// BookDocument is the document structure stored in the Bleve index.
type BookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Shelf       int    `json:"shelf,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`

	// Unix millis, for sorting by recency.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names, but the index mapping uses
// lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.ISBN != "" {
		m["isbn"] = d.ISBN
	}
	if d.Barcode != "" {
		m["barcode"] = d.Barcode
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.Shelf > 0 {
		m["shelf"] = d.Shelf
	}
	if d.PageCount > 0 {
		m["page_count"] = d.PageCount
	}

	return m
}

// BookToDocument converts a domain Book to its index representation.
func BookToDocument(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		ISBN:        book.ISBN,
		Barcode:     book.Barcode,
		Genre:       book.Genre,
		Shelf:       book.Shelf,
		PageCount:   book.PageCount,
		CreatedAt:   book.CreatedAt.UnixMilli(),
		UpdatedAt:   book.UpdatedAt.UnixMilli(),
	}
}
