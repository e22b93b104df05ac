package repository

import (
	"sync"

	"github.com/segyhp/circulation-desk/internal/domain"
)

type bookRepository struct {
	mu    sync.RWMutex
	books []*domain.Book
}

func NewBookRepository() BookRepository {
	return &bookRepository{books: make([]*domain.Book, 0)}
}

func (r *bookRepository) AddBook(author, title, callNumber string) (*domain.Book, error) {
	if err := validateRequest(addBookRequest{Author: author, Title: title, CallNumber: callNumber}); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	book, err := domain.NewBook(r.nextID(), author, title, callNumber)
	if err != nil {
		return nil, err
	}

	r.books = append(r.books, book)
	return book, nil
}

func (r *bookRepository) GetBookByID(id int) *domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, book := range r.books {
		if book.ID() == id {
			return book
		}
	}
	return nil
}

func (r *bookRepository) ListBooks() []*domain.Book {
	return r.filter(func(*domain.Book) bool { return true })
}

func (r *bookRepository) FindBooksByAuthor(author string) []*domain.Book {
	return r.filter(func(b *domain.Book) bool { return b.Author() == author })
}

func (r *bookRepository) FindBooksByTitle(title string) []*domain.Book {
	return r.filter(func(b *domain.Book) bool { return b.Title() == title })
}

func (r *bookRepository) FindBooksByAuthorTitle(author, title string) []*domain.Book {
	return r.filter(func(b *domain.Book) bool { return b.Author() == author && b.Title() == title })
}

func (r *bookRepository) filter(match func(*domain.Book) bool) []*domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]*domain.Book, 0)
	for _, book := range r.books {
		if match(book) {
			books = append(books, book)
		}
	}
	return books
}

// nextID is one past the highest id in the arena; callers hold the lock
func (r *bookRepository) nextID() int {
	maxID := 0
	for _, book := range r.books {
		if book.ID() > maxID {
			maxID = book.ID()
		}
	}
	return maxID + 1
}
