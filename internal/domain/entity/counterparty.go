package entity

import "time"

// Client cliente (contraparte de ventas).
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Supplier proveedor (contraparte de compras).
type Supplier struct {
	ID        string
	LegalName string // razón social
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
}
