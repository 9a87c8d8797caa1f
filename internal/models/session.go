package models

import "time"

// Session связывает cookie браузера с пользователем до момента Expires
type Session struct {
	Token   string
	UserID  int
	Expires time.Time
	Created time.Time
}

// Expired сообщает, закончился ли срок сессии к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}
