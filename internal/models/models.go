package models

import (
	"github.com/shopspring/decimal"
)

const (
	TransactionPawn     = "pawn"
	TransactionSale     = "sale"
	TransactionRedeemed = "redeemed"
	TransactionSold     = "sold"

	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Customer struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	FirstName      string `gorm:"not null"                              json:"firstName"`
	LastName       string `gorm:"not null"                              json:"lastName"`
	Pesel          string `gorm:"type:char(11);unique;not null"         json:"pesel"`
	DateOfBirth    string `gorm:"not null"                              json:"dateOfBirth"`
	Street         string `gorm:"not null"                              json:"street"`
	HouseNumber    string `gorm:"not null"                              json:"houseNumber"`
	PostalCode     string `gorm:"not null"                              json:"postalCode"`
	City           string `gorm:"not null"                              json:"city"`
	DocumentSeries string `gorm:"not null;uniqueIndex:idx_customer_doc" json:"documentSeries"`
	DocumentNumber string `gorm:"not null;uniqueIndex:idx_customer_doc" json:"documentNumber"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Notes          string `json:"notes,omitempty"`

	Products []Product `gorm:"foreignKey:ClientID" json:"-"`
}

type Product struct {
	ID                 uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string              `gorm:"not null"                 json:"name"`
	Description        string              `json:"description"`
	Category           string              `gorm:"not null"                 json:"category"`
	Brand              string              `json:"brand,omitempty"`
	Model              string              `json:"model,omitempty"`
	SerialNumber       string              `json:"serialNumber,omitempty"`
	YearOfProduction   int                 `json:"yearOfProduction,omitempty"`
	TechnicalCondition string              `gorm:"not null"                 json:"technicalCondition"`
	PurchasePrice      decimal.Decimal     `gorm:"type:numeric;not null"    json:"purchasePrice"`
	SalePrice          decimal.NullDecimal `gorm:"type:numeric"             json:"salePrice"`
	LoanValue          decimal.NullDecimal `gorm:"type:numeric"             json:"loanValue"`
	InterestRate       decimal.NullDecimal `gorm:"type:numeric"             json:"interestRate"`
	TransactionType    string              `gorm:"not null"                 json:"transactionType"`
	DateOfReceipt      string              `gorm:"not null"                 json:"dateOfReceipt"`
	RedemptionDeadline string              `json:"redemptionDeadline,omitempty"`
	TransactionNotes   string              `json:"transactionNotes,omitempty"`
	AdditionalNotes    string              `json:"additionalNotes,omitempty"`

	ClientID uint           `gorm:"index;not null"      json:"clientId"`
	Client   *Customer      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null"           json:"productId"`
	Filename  string `gorm:"not null"                 json:"filename"`
}

type Employee struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	FirstName      string `gorm:"not null"                              json:"firstName"`
	LastName       string `gorm:"not null"                              json:"lastName"`
	Pesel          string `gorm:"type:char(11);unique;not null"         json:"pesel"`
	DateOfBirth    string `gorm:"not null"                              json:"dateOfBirth"`
	Street         string `gorm:"not null"                              json:"street"`
	HouseNumber    string `gorm:"not null"                              json:"houseNumber"`
	PostalCode     string `gorm:"not null"                              json:"postalCode"`
	City           string `gorm:"not null"                              json:"city"`
	DocumentSeries string `gorm:"not null;uniqueIndex:idx_employee_doc" json:"documentSeries"`
	DocumentNumber string `gorm:"not null;uniqueIndex:idx_employee_doc" json:"documentNumber"`
	Phone          string `gorm:"not null"                              json:"phone"`
	Email          string `gorm:"unique;not null"                       json:"email"`
	Login          string `gorm:"unique;not null"                       json:"login"`
	PasswordHash   string `gorm:"not null"                              json:"-"`
	Role           string `gorm:"not null;default:employee"             json:"role"`
}

type Session struct {
	ID         uint   `gorm:"primaryKey"      json:"id"`
	Token      string `gorm:"unique;not null" json:"token"`
	EmployeeID uint   `gorm:"index;not null"  json:"employee_id"`
	ExpiresAt  int64  `gorm:"not null"        json:"expires_at"`
	Revoked    bool   `gorm:"default:false"   json:"revoked"`
}

// CustomerSummary is the getAll projection, the list view never loads
// full records.
type CustomerSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Pesel     string `json:"pesel"`
}

// ProductSummary rides along with a customer detail response.
type ProductSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	TransactionType string `json:"transactionType"`
}
