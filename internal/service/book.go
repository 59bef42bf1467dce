package service

import (
	"context"
	"time"

	"github.com/nebulia-tech/librairie/internal/model"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func bookFromRequest(req model.BookRequest) model.Book {
	status := req.Status
	if status == "" {
		status = model.BookAvailable
	}
	var pub *time.Time
	if req.PublicationDate != nil {
		t := req.PublicationDate.Time
		pub = &t
	}
	return model.Book{
		Title:           req.Title,
		Author:          req.Author,
		PublicationDate: pub,
		Isbn:            req.Isbn,
		Description:     req.Description,
		Status:          status,
		CoverURL:        req.CoverURL,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (int, error) {
	return s.repo.CreateBook(ctx, bookFromRequest(req))
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.BookRequest) error {
	book := bookFromRequest(req)
	book.ID = id
	return s.repo.UpdateBook(ctx, book)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) Statistics(ctx context.Context) (model.Statistics, error) {
	return s.repo.Statistics(ctx)
}
