package validation

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"slices"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValidationError carries the failed checks per input field
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Errors == nil {
		e.Errors = map[string][]string{}
	}
	if slices.Contains(e.Errors[field], message) {
		return
	}
	e.Errors[field] = append(e.Errors[field], message)
}

// Validator runs rule sets against request input
type Validator struct {
	db       *gorm.DB
	validate *validator.Validate
}

// New creates a validator; db backs the unique and exists checks
func New(db *gorm.DB) *Validator {
	return &Validator{
		db:       db,
		validate: validator.New(),
	}
}

// Validate checks in against rules. ignoreID excludes the row being
// updated from unique checks; pass 0 on create. A failed check yields a
// *ValidationError, any other error comes from the database.
func (v *Validator) Validate(ctx context.Context, rules RuleSet, in *Input, ignoreID uint) error {
	verr := &ValidationError{}

	for _, rule := range rules.Fields {
		if err := v.checkField(ctx, rule, in, ignoreID, verr); err != nil {
			return err
		}
	}
	for _, rule := range rules.Files {
		if err := v.checkFiles(rule, in, verr); err != nil {
			return err
		}
	}

	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

func (v *Validator) checkField(ctx context.Context, rule FieldRule, in *Input, ignoreID uint, verr *ValidationError) error {
	name := label(rule.Field, rule.Label)
	value := in.String(rule.Field)

	if value == "" {
		_, sent := in.Values[rule.Field]
		switch {
		case rule.Required:
			verr.add(rule.Field, fmt.Sprintf("The %s field is required.", name))
		case sent && !rule.Nullable:
			verr.add(rule.Field, fmt.Sprintf("The %s field must not be empty.", name))
		}
		return nil
	}

	if rule.Tag != "" {
		if err := v.validate.Var(value, rule.Tag); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return fmt.Errorf("validate %s: %w", rule.Field, err)
			}
			for _, fe := range fieldErrs {
				verr.add(rule.Field, tagMessage(name, fe))
			}
			return nil
		}
	}

	if rule.Exists != nil {
		found, err := v.count(ctx, rule.Exists.Table, rule.Exists.Column, value, 0)
		if err != nil {
			return err
		}
		if found == 0 {
			verr.add(rule.Field, fmt.Sprintf("The selected %s is invalid.", name))
		}
	}

	if rule.Unique != nil {
		taken, err := v.count(ctx, rule.Unique.Table, rule.Unique.Column, value, ignoreID)
		if err != nil {
			return err
		}
		if taken > 0 {
			verr.add(rule.Field, fmt.Sprintf("The %s has already been taken.", name))
		}
	}
	return nil
}

func (v *Validator) count(ctx context.Context, table, column, value string, ignoreID uint) (int64, error) {
	q := v.db.WithContext(ctx).
		Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if ignoreID > 0 {
		q = q.Where(clause.Neq{Column: clause.Column{Name: "id"}, Value: ignoreID})
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("check %s.%s: %w", table, column, err)
	}
	return n, nil
}

func (v *Validator) checkFiles(rule FileRule, in *Input, verr *ValidationError) error {
	name := label(rule.Field, rule.Label)
	files := in.FileHeaders(rule.Field)

	if len(files) == 0 {
		if rule.Required {
			verr.add(rule.Field, fmt.Sprintf("The %s field is required.", name))
		}
		return nil
	}

	for _, fh := range files {
		if rule.MaxKB > 0 && fh.Size > rule.MaxKB*1024 {
			verr.add(rule.Field, fmt.Sprintf("The %s field must not be greater than %d kilobytes.", name, rule.MaxKB))
		}
		if len(rule.Mimes) == 0 {
			continue
		}

		mtype, err := detect(fh)
		if err != nil {
			return err
		}
		if !accepts(rule.Mimes, mtype) {
			verr.add(rule.Field, fmt.Sprintf("The %s field must be a file of type: %s.", name, strings.Join(rule.Mimes, ", ")))
		}
	}
	return nil
}

func detect(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", fh.Filename, err)
	}
	return mtype, nil
}

func accepts(exts []string, mtype *mimetype.MIME) bool {
	for _, ext := range exts {
		if want, ok := mimeByExtension[ext]; ok && mtype.Is(want) {
			return true
		}
	}
	return false
}

func tagMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("The %s field must be a number.", name)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}
