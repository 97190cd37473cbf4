package model

import "time"

// AdminSession is the result of a successful admin login
type AdminSession struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}
