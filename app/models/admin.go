package models

import "time"

// Admin is a back-office user. Password holds a bcrypt hash.
type Admin struct {
	ID        string    `gorm:"primaryKey;size:36"            json:"_id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"`
	Role      string    `gorm:"size:32;not null"              json:"role"`
	CreatedAt time.Time `                                     json:"createdAt"`
}
