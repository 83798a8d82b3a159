package entity

import "time"

// Supplier proveedor referenciado al aprobar una demanda por compras.
// El núcleo solo exige existencia; las reglas comerciales son externas.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	City          string
	Country       string
	TaxNumber     string
	PaymentTerms  string
	Notes         string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
