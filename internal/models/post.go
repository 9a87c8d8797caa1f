package models

import "time"

// PostStringLength - сколько символов текста попадает в строковое представление поста
const PostStringLength = 15

type Post struct {
	ID       int       // Уникальный идентификатор
	Text     string    // Текст поста
	PubDate  time.Time // Дата публикации
	AuthorID int       // ID автора
	GroupID  *int      // ID группы (nil - пост без группы)
	// Данные для JOIN запросов
	Author string // Имя автора
	Group  *Group // Группа поста, если есть
}

// String возвращает начало текста поста
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= PostStringLength {
		return p.Text
	}
	return string(runes[:PostStringLength])
}

// PostFilter выбирает ленту: общую, группы или автора
type PostFilter struct {
	GroupID  *int
	AuthorID *int
}
