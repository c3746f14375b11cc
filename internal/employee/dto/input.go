package dto

type AddressInput struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	Zip     string `json:"zip" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type CreateEmployeeInput struct {
	Name    string       `json:"name" binding:"required"`
	Email   string       `json:"email" binding:"required,email"`
	Phone   string       `json:"phone" binding:"required"`
	Title   string       `json:"title"`
	Address AddressInput `json:"address"`
}

// UpdateEmployeeInput replaces contact details and address. The title is
// changed separately.
type UpdateEmployeeInput struct {
	ID      string       `json:"-"`
	Name    string       `json:"name" binding:"required"`
	Email   string       `json:"email" binding:"required,email"`
	Phone   string       `json:"phone" binding:"required"`
	Address AddressInput `json:"address"`
}
