package models

type Client struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	FirstName   string `json:"first_name" gorm:"not null"`
	LastName    string `json:"last_name" gorm:"not null"`
	Email       string `json:"email" gorm:"not null"`
	Company     string `json:"company"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`

	// Owner; stamped at creation, never taken from request input.
	CreatedById string `json:"-" gorm:"index;not null"`
	CreatedBy   User   `json:"-" gorm:"foreignKey:CreatedById;references:Id"`
}
