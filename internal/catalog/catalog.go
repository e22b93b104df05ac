// Package catalog loads the books, members and open loans a desk starts with
// from YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/segyhp/circulation-desk/internal/domain"
	"github.com/segyhp/circulation-desk/internal/repository"
	customError "github.com/segyhp/circulation-desk/pkg/errors"
	"github.com/segyhp/circulation-desk/pkg/utils"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Books   []BookRecord   `yaml:"books" validate:"dive"`
	Members []MemberRecord `yaml:"members" validate:"dive"`
	Loans   []LoanRecord   `yaml:"loans" validate:"dive"`
}

type BookRecord struct {
	Author     string `yaml:"author" validate:"required"`
	Title      string `yaml:"title" validate:"required"`
	CallNumber string `yaml:"call_number" validate:"required"`
}

type MemberRecord struct {
	FirstName string `yaml:"first_name" validate:"required"`
	LastName  string `yaml:"last_name" validate:"required"`
	Phone     string `yaml:"phone" validate:"required"`
	Email     string `yaml:"email" validate:"required,email"`
	Fine      string `yaml:"fine" validate:"omitempty,fine"`
}

// LoanRecord is a loan already out when the desk opens. Ids are 1-based
// positions in the books and members lists.
type LoanRecord struct {
	BookID   int    `yaml:"book_id" validate:"required,min=1"`
	MemberID int    `yaml:"member_id" validate:"required,min=1"`
	Borrowed string `yaml:"borrowed" validate:"required,datetime=2006-01-02"`
	Due      string `yaml:"due" validate:"required,datetime=2006-01-02"`
}

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// fine must be a non-negative decimal amount
	_ = v.RegisterValidation("fine", func(fl validator.FieldLevel) bool {
		amount, err := utils.DecimalFromString(fl.Field().String())
		return err == nil && !amount.IsNegative()
	})
	return v
}

// Load reads and validates the catalogue at path
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return Parse(data)
}

// Default returns the catalogue bundled with the binary
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("bundled catalogue is invalid: %v", err))
	}
	return c
}

// Open loads the catalogue at path, or the bundled one when path is empty
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		field := strings.TrimPrefix(fe.Namespace(), "Catalog.")
		return customError.WrapValidation(fmt.Sprintf("%s is %s", field, describeTag(fe.Tag())))
	}
	return customError.NewBusinessError(customError.ErrCodeValidation, err.Error(), customError.ErrValidation)
}

func describeTag(tag string) string {
	switch tag {
	case "email":
		return "not a valid email address"
	case "fine":
		return "not a non-negative amount"
	case "datetime":
		return "not a YYYY-MM-DD date"
	case "min":
		return "not a positive id"
	default:
		return tag
	}
}

// Seed adds the catalogue to the repositories in file order, commits the
// opening loans and then charges any opening fines.
func Seed(c *Catalog, books repository.BookRepository, members repository.MemberRepository, loans repository.LoanRepository) error {
	for i, record := range c.Books {
		if _, err := books.AddBook(record.Author, record.Title, record.CallNumber); err != nil {
			return fmt.Errorf("seed book %d: %w", i, err)
		}
	}

	seeded := make([]*domain.Member, 0, len(c.Members))
	for i, record := range c.Members {
		member, err := members.AddMember(record.FirstName, record.LastName, record.Phone, record.Email)
		if err != nil {
			return fmt.Errorf("seed member %d: %w", i, err)
		}
		seeded = append(seeded, member)
	}

	// loans go in before fines so a member over the fine limit can still
	// hold the loans they had when the fine was charged
	for i, record := range c.Loans {
		if err := seedLoan(record, books, members, loans); err != nil {
			return fmt.Errorf("seed loan %d: %w", i, err)
		}
	}

	for i, record := range c.Members {
		if record.Fine == "" {
			continue
		}

		fine, err := utils.DecimalFromString(record.Fine)
		if err != nil {
			return fmt.Errorf("seed member %d: %w", i, customError.WrapValidation("fine is not a decimal amount"))
		}
		if err := seeded[i].AddFine(fine); err != nil {
			return fmt.Errorf("seed member %d: %w", i, err)
		}
	}
	return nil
}

func seedLoan(record LoanRecord, books repository.BookRepository, members repository.MemberRepository, loans repository.LoanRepository) error {
	book := books.GetBookByID(record.BookID)
	if book == nil {
		return customError.WrapBookNotFound(record.BookID)
	}
	member := members.GetMemberByID(record.MemberID)
	if member == nil {
		return customError.WrapMemberNotFound(record.MemberID)
	}

	borrowed, err := time.Parse(dateLayout, record.Borrowed)
	if err != nil {
		return customError.WrapValidation("borrowed is not a YYYY-MM-DD date")
	}
	due, err := time.Parse(dateLayout, record.Due)
	if err != nil {
		return customError.WrapValidation("due is not a YYYY-MM-DD date")
	}

	loan, err := loans.CreateLoan(member, book, borrowed, due)
	if err != nil {
		return err
	}
	return loans.CommitLoan(loan)
}
