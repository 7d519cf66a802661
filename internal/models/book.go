package models

import (
	"errors"
	"strings"
	"time"
)

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	AvailableCopies int       `json:"available_copies"`
	TotalCopies     int       `json:"total_copies"`
	CreatedAt       time.Time `json:"created_at"`
}

func (b *Book) IsAvailable() bool { return b.AvailableCopies > 0 }

func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title required")
	}
	if strings.TrimSpace(b.Author) == "" {
		return errors.New("author required")
	}
	if b.TotalCopies < 1 {
		return errors.New("total_copies must be >= 1")
	}
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return errors.New("available_copies must be between 0 and total_copies")
	}
	return nil
}
