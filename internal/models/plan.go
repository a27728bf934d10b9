package models

import "time"

// Категории тарифных планов уборки.
const (
	PlanCategoryBasic      = "basic"
	PlanCategoryStandard   = "standard"
	PlanCategoryPremium    = "premium"
	PlanCategoryEnterprise = "enterprise"
)

// Plan представляет тарифный план уборки: набор услуг, периодичность
// визитов и цену. Поле Availability содержит список почтовых индексов,
// где план доступен; пустой список означает доступность везде.
type Plan struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	VisitsPerMonth int       `json:"visitsPerMonth"`
	ContractLength int       `json:"contractLength"` // Длительность контракта в месяцах
	Features       []string  `json:"features"`
	Availability   []string  `json:"-"` // Почтовые индексы зоны обслуживания
	IsFeatured     bool      `json:"isFeatured"`
	IsAvailable    bool      `json:"isAvailable"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// AvailableIn сообщает, доступен ли план в указанном почтовом индексе.
func (p *Plan) AvailableIn(zipCode string) bool {
	if len(p.Availability) == 0 {
		return true
	}
	for _, zip := range p.Availability {
		if zip == zipCode {
			return true
		}
	}
	return false
}

// PlanFilter описывает параметры выборки планов из каталога.
type PlanFilter struct {
	Category string // Фильтр по категории (пустая строка — без фильтра)
	SortBy   string // Поле сортировки: price, visits или name
	Order    string // Направление: asc или desc
}

// ValidPlanCategories возвращает набор допустимых категорий планов.
func ValidPlanCategories() []string {
	return []string{PlanCategoryBasic, PlanCategoryStandard, PlanCategoryPremium, PlanCategoryEnterprise}
}
