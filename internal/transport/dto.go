package transport

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Login     string `json:"login"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type CustomerCreateRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Pesel          string `json:"pesel"`
	DateOfBirth    string `json:"dateOfBirth"`
	Street         string `json:"street"`
	HouseNumber    string `json:"houseNumber"`
	PostalCode     string `json:"postalCode"`
	City           string `json:"city"`
	DocumentSeries string `json:"documentSeries"`
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Notes          string `json:"notes"`
}

// CustomerUpdateRequest is the fixed whitelist for customer edits.
// Fields left out of the payload stay untouched.
type CustomerUpdateRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Pesel          *string `json:"pesel"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Street         *string `json:"street"`
	HouseNumber    *string `json:"houseNumber"`
	PostalCode     *string `json:"postalCode"`
	City           *string `json:"city"`
	DocumentSeries *string `json:"documentSeries"`
	DocumentNumber *string `json:"documentNumber"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Notes          *string `json:"notes"`
}

type EmployeeCreateRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Pesel          string `json:"pesel"`
	DateOfBirth    string `json:"dateOfBirth"`
	Street         string `json:"street"`
	HouseNumber    string `json:"houseNumber"`
	PostalCode     string `json:"postalCode"`
	City           string `json:"city"`
	DocumentSeries string `json:"documentSeries"`
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Login          string `json:"login"`
	Password       string `json:"password"`
	Role           string `json:"role"`
}

// EmployeeUpdateRequest never carries a password, resets go through the
// dedicated endpoint.
type EmployeeUpdateRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Pesel          *string `json:"pesel"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Street         *string `json:"street"`
	HouseNumber    *string `json:"houseNumber"`
	PostalCode     *string `json:"postalCode"`
	City           *string `json:"city"`
	DocumentSeries *string `json:"documentSeries"`
	DocumentNumber *string `json:"documentNumber"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Login          *string `json:"login"`
	Role           *string `json:"role"`
}

type PasswordResetRequest struct {
	Password string `json:"password"`
}

type StatusChangeRequest struct {
	TransactionType string `json:"transactionType"`
}
