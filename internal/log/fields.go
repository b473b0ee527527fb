package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldUsername    = "username"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldDate        = "date"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldPath        = "path"
	FieldBackend     = "backend"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
	FieldEventKind   = "kind"
	FieldError       = "error"
	FieldOperation   = "operation"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentShell   = "shell"
	ComponentAuth    = "auth"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpRegister   = "register"
	OpLogin      = "login"
	OpAddIncome  = "add_income"
	OpAddExpense = "add_expense"
	OpSetBudget  = "set_budget"
	OpLoad       = "load"
	OpSave       = "save"
	OpPublish    = "publish"
	OpConsume    = "consume"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)
