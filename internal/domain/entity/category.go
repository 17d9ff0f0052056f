package entity

// Category sets valid for each transaction type
var (
	CreditCategories = []string{
		"Salário",
		"Investimentos",
		"Freelance",
		"Vendas",
		"Outros Créditos",
	}

	DebitCategories = []string{
		"Alimentação",
		"Transporte",
		"Moradia",
		"Saúde",
		"Educação",
		"Lazer",
		"Roupas",
		"Contas",
		"Outros Débitos",
	}
)

// CategoriesFor returns the categories a transaction of type t may use
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Credit:
		return CreditCategories
	case Debit:
		return DebitCategories
	default:
		return nil
	}
}

// IsValidCategory reports whether category belongs to the set of type t
func IsValidCategory(t TransactionType, category string) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}
