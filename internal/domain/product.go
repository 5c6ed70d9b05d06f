package domain

// Category описывает категорию товара пекарни.
type Category string

const (
	// CategoryBread — хлеб и выпечка.
	CategoryBread Category = "bread"
	// CategoryCake — торты и пирожные.
	CategoryCake Category = "cake"
)

// Valid проверяет, что категория относится к поддерживаемым значениям.
func (c Category) Valid() bool {
	switch c {
	case CategoryBread, CategoryCake:
		return true
	default:
		return false
	}
}

// Product представляет товар каталога. Со стороны витрины товар неизменяем,
// изменения выполняет только админ-панель.
type Product struct {
	ID          string
	Name        string
	Description string
	// Price — цена в целых рупиях (валюта без минорных единиц).
	Price     int64
	Image     string
	Category  Category
	Available bool
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price <= 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if !p.Category.Valid() {
		errs = append(errs, ErrCategoryUnknown)
	}

	return errs
}
