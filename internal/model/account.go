package model

// Canonical account names. These must match the values stored in the
// transactions table.
const (
	AccountCash = "Cash"
	AccountBlu  = "Blu Account (Saving)"
)

// Accounts is the fixed set of valid account names.
var Accounts = []string{
	AccountCash,
	"BCA",
	"Maybank",
	"Seabank",
	"Shopeepay",
	"Gopay",
	"Jago",
	"ISaku",
	"Ovo",
	"Superbank",
	AccountBlu,
}
