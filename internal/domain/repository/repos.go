package repository

// Repos repositorios atados a una misma transacción de BD.
// Los TxRunner construyen un Repos por unidad atómica y lo pasan al callback.
type Repos struct {
	Products       ProductRepository
	Movements      StockMovementRepository
	Transactions   TransactionRepository
	Invoices       InvoiceRepository
	Payments       PaymentRepository
	Counterparties CounterpartyRepository
}
