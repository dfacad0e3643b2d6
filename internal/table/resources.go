package table

// Definition is the authored table setup for one resource. Definitions are
// static; nothing mutates them at runtime.
type Definition struct {
	Resource   string
	Title      string
	Columns    []Column
	FilterKeys []string

	DeleteSuccess string
	DeleteFailure string

	NavLabel string
	NavHref  func(id string) string
}

// Debts lists the debts of the current user.
var Debts = Definition{
	Resource: "debts",
	Title:    "Débitos",
	Columns: []Column{
		{Key: "invoice", Label: "Fatura", Sortable: true, NestedKey: "invoice.title"},
		{Key: "purchase_date", Label: "Data da Compra", Sortable: true, Kind: Date},
		{Key: "title", Label: "Título", Sortable: true},
		{Key: "amount", Label: "Valor", Sortable: true, Kind: Currency},
		{Key: "category", Label: "Categoria", Sortable: true, NestedKey: "category.name"},
		{Key: "due_date", Label: "Data de Vencimento", Sortable: true, Kind: Date},
		{Key: "status", Label: "Status", Sortable: true, Kind: Status},
	},
	FilterKeys:    []string{"status_id", "category_id"},
	DeleteSuccess: "Débito removido com sucesso",
	DeleteFailure: "Erro ao excluir débito",
}

// Invoices lists credit card invoices; each one links to its transactions.
var Invoices = Definition{
	Resource: "invoices",
	Title:    "Faturas",
	Columns: []Column{
		{Key: "due_date", Label: "Data de Vencimento", Sortable: true, Kind: Date},
		{Key: "title", Label: "Título", Sortable: true},
		{Key: "amount", Label: "Valor", Sortable: true, Kind: Currency},
		{Key: "status", Label: "Status", Sortable: true, Kind: Status},
	},
	FilterKeys:    []string{"status_id"},
	DeleteSuccess: "Fatura removida com sucesso",
	DeleteFailure: "Erro ao excluir a fatura",
	NavLabel:      "Ver transações",
	NavHref: func(id string) string {
		return "/invoices/" + id + "/transactions"
	},
}

// Transactions lists income and expense records.
var Transactions = Definition{
	Resource: "transactions",
	Title:    "Transações",
	Columns: []Column{
		{Key: "record_date", Label: "Data", Sortable: true, Kind: Date},
		{Key: "record_type", Label: "Tipo", Sortable: true, Kind: RecordType},
		{Key: "title", Label: "Título", Sortable: true},
		{Key: "amount", Label: "Valor", Sortable: true, Kind: Currency},
		{Key: "category", Label: "Categoria", Sortable: true, NestedKey: "category.name"},
		{Key: "status", Label: "Status", Sortable: true, Kind: Status},
	},
	FilterKeys:    []string{"status_id", "category_id"},
	DeleteSuccess: "Transação removida com sucesso",
	DeleteFailure: "Erro ao excluir transação",
}

// Categories lists the user's spending categories.
var Categories = Definition{
	Resource: "categories",
	Title:    "Categorias",
	Columns: []Column{
		{Key: "name", Label: "Nome", Sortable: true},
	},
	DeleteSuccess: "Categoria removida com sucesso",
	DeleteFailure: "Erro ao excluir categoria",
}

// PaymentStatuses lists the payment status dictionary.
var PaymentStatuses = Definition{
	Resource: "paymentstatus",
	Title:    "Status de Pagamento",
	Columns: []Column{
		{Key: "name", Label: "Nome", Sortable: true},
	},
	DeleteSuccess: "Status removido com sucesso",
	DeleteFailure: "Erro ao excluir status",
}

// Definitions enumerates every table in navigation order.
var Definitions = []Definition{Debts, Invoices, Transactions, Categories, PaymentStatuses}
