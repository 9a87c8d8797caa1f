// Package paginator делит упорядоченную ленту на страницы фиксированного размера.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultPerPage - размер страницы ленты по умолчанию
const DefaultPerPage = 10

// Page описывает одну страницу ленты. Сами записи лежат у вызывающей стороны,
// Page знает только номер страницы и границы среза.
type Page struct {
	Number   int // Номер текущей страницы, начиная с 1
	PerPage  int // Записей на странице
	Total    int // Всего записей в ленте
	NumPages int // Всего страниц
}

// New вычисляет страницу по сырому значению параметра ?page=.
// Пробелы вокруг числа допускаются. Нечисловое значение дает первую
// страницу, номер вне диапазона (в том числе слишком длинный) - последнюю.
// Пустая лента состоит из одной пустой страницы.
func New(total, perPage int, raw string) *Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}

	p := &Page{
		PerPage:  perPage,
		Total:    total,
		NumPages: numPages(total, perPage),
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case errors.Is(err, strconv.ErrRange):
		p.Number = p.NumPages
	case err != nil:
		p.Number = 1
	case number < 1 || number > p.NumPages:
		p.Number = p.NumPages
	default:
		p.Number = number
	}

	return p
}

func numPages(total, perPage int) int {
	if total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Offset - сколько записей пропустить в запросе
func (p *Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit - сколько записей выбрать в запросе
func (p *Page) Limit() int {
	return p.PerPage
}

// Len - сколько записей фактически попадает на страницу
func (p *Page) Len() int {
	if p.Total == 0 {
		return 0
	}
	if p.Number == p.NumPages {
		return p.Total - p.Offset()
	}
	return p.PerPage
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p *Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// StartIndex - номер первой записи на странице (с 1), 0 для пустой ленты
func (p *Page) StartIndex() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndIndex - номер последней записи на странице (с 1)
func (p *Page) EndIndex() int {
	return p.Offset() + p.Len()
}

// PageRange - номера всех страниц для навигации
func (p *Page) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
